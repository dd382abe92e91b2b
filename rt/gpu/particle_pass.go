package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/backdrop/rt/core"
	"github.com/gekko3d/backdrop/rt/field"
	"github.com/gekko3d/backdrop/rt/shaders"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ParticlePass draws the whole particle field with one instanced draw call.
type ParticlePass struct {
	Instance *wgpu.Instance
	Surface  *wgpu.Surface
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Config   *wgpu.SurfaceConfiguration

	Pipeline       *wgpu.RenderPipeline
	BindGroup      *wgpu.BindGroup
	CameraBuffer   *wgpu.Buffer
	FrameBuffer    *wgpu.Buffer
	InstanceBuffer *wgpu.Buffer

	ClearColor wgpu.Color

	frameBytes [core.FrameUniformSize]byte
	released   bool
}

var ErrReleased = errors.New("gpu: particle pass released")

// Open acquires a wgpu device for window and builds the particle pipeline.
func Open(window *glfw.Window, width, height int) (p *ParticlePass, err error) {
	if window == nil {
		return nil, errors.New("gpu: nil window")
	}
	defer func() {
		// the binding panics on some adapter/device failures
		if r := recover(); r != nil {
			if p != nil {
				p.Release()
			}
			p, err = nil, fmt.Errorf("gpu: open: %v", r)
		}
	}()

	p = &ParticlePass{
		ClearColor: wgpu.Color{R: 0.02, G: 0.024, B: 0.043, A: 1},
	}
	p.Instance = wgpu.CreateInstance(nil)
	p.Surface = p.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	p.Adapter, err = p.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: p.Surface,
		PowerPreference:   wgpu.PowerPreferenceLowPower,
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}

	p.Device, err = p.Adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Backdrop Device",
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}
	p.Queue = p.Device.GetQueue()

	caps := p.Surface.GetCapabilities(p.Adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		p.Release()
		return nil, errors.New("gpu: surface reports no formats")
	}
	p.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}
	p.Surface.Configure(p.Adapter, p.Device, p.Config)

	if err := p.createPipeline(); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (p *ParticlePass) createPipeline() error {
	shaderModule, err := p.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ParticleShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticlesWGSL},
	})
	if err != nil {
		return fmt.Errorf("gpu: particle shader: %w", err)
	}
	defer shaderModule.Release()

	bgl, err := p.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "ParticleUniformsBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: core.CameraUniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: core.FrameUniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: bind group layout: %w", err)
	}
	defer bgl.Release()

	pipelineLayout, err := p.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "ParticlePipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return fmt.Errorf("gpu: pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	p.Pipeline, err = p.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "ParticlePipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: shaders.VertexEntry,
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: field.ParticleStride,
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
						{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 1},   // size
						{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 2}, // color
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: shaders.FragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    p.Config.Format,
					WriteMask: wgpu.ColorWriteMaskAll,
					// additive: overlapping particles brighten
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOne,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOne,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: particle pipeline: %w", err)
	}

	p.CameraBuffer, err = p.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ParticleCamera",
		Size:  core.CameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: camera buffer: %w", err)
	}
	p.FrameBuffer, err = p.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ParticleFrame",
		Size:  core.FrameUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: frame buffer: %w", err)
	}

	p.BindGroup, err = p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "ParticleUniformsBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.CameraBuffer, Size: core.CameraUniformSize},
			{Binding: 1, Buffer: p.FrameBuffer, Size: core.FrameUniformSize},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: bind group: %w", err)
	}
	return nil
}

// Upload creates the instance buffer. It is called once per scene.
func (p *ParticlePass) Upload(buf *field.Buffer) error {
	if p.released {
		return ErrReleased
	}
	if p.InstanceBuffer != nil {
		return errors.New("gpu: particle buffer already uploaded")
	}
	var err error
	p.InstanceBuffer, err = p.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "ParticleInstances",
		Contents: buf.Bytes(),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fmt.Errorf("gpu: particle instances: %w", err)
	}
	return nil
}

func (p *ParticlePass) WriteCamera(u core.CameraUniforms) error {
	if p.released {
		return ErrReleased
	}
	return p.Queue.WriteBuffer(p.CameraBuffer, 0, u.Bytes())
}

func (p *ParticlePass) WriteFrame(u core.FrameUniforms) error {
	if p.released {
		return ErrReleased
	}
	u.Put(p.frameBytes[:])
	return p.Queue.WriteBuffer(p.FrameBuffer, 0, p.frameBytes[:])
}

// Draw encodes and presents one frame: a single instanced draw over all particles.
func (p *ParticlePass) Draw(instances uint32) error {
	if p.released {
		return ErrReleased
	}
	if p.InstanceBuffer == nil {
		return errors.New("gpu: draw before upload")
	}

	nextTexture, err := p.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("gpu: current texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("gpu: texture view: %w", err)
	}
	defer view.Release()

	encoder, err := p.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("gpu: command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: p.ClearColor,
		}},
	})
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.InstanceBuffer, 0, wgpu.WholeSize)
	pass.Draw(shaders.QuadVertices, instances, 0, 0)
	if err := pass.End(); err != nil {
		return fmt.Errorf("gpu: render pass: %w", err)
	}
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("gpu: encoder finish: %w", err)
	}
	defer cmd.Release()

	p.Queue.Submit(cmd)
	p.Surface.Present()
	return nil
}

func (p *ParticlePass) Resize(width, height int) error {
	if p.released {
		return ErrReleased
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	p.Config.Width = uint32(width)
	p.Config.Height = uint32(height)
	p.Surface.Configure(p.Adapter, p.Device, p.Config)
	return nil
}

// Release frees every GPU object. Safe to call more than once.
func (p *ParticlePass) Release() {
	if p.released {
		return
	}
	p.released = true

	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	if p.InstanceBuffer != nil {
		p.InstanceBuffer.Release()
	}
	if p.FrameBuffer != nil {
		p.FrameBuffer.Release()
	}
	if p.CameraBuffer != nil {
		p.CameraBuffer.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
	if p.Queue != nil {
		p.Queue.Release()
	}
	if p.Device != nil {
		p.Device.Release()
	}
	if p.Adapter != nil {
		p.Adapter.Release()
	}
	if p.Surface != nil {
		p.Surface.Release()
	}
	if p.Instance != nil {
		p.Instance.Release()
	}
}
