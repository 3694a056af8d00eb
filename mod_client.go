package greetcard

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/greetcard/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

const maxLights = 4

type gpuLight struct {
	Position [4]float32
	Color    [4]float32
	Params   [4]float32
}

// sceneUniform mirrors Scene in shaders/common.wgsl.
type sceneUniform struct {
	ViewProj [16]float32
	View     [16]float32
	Eye      [4]float32
	Viewport [4]float32
	Fog      [4]float32
	FogRange [4]float32
	Ambient  [4]float32
	Lights   [maxLights]gpuLight
}

// drawUniform mirrors Draw in shaders/common.wgsl.
type drawUniform struct {
	Model     [16]float32
	NormalMat [16]float32
	Color     [4]float32
	Emissive  [4]float32
	Params    [4]float32
}

type pointVertex struct {
	Position [3]float32 `gekko:"layout" format:"float3" location:"0"`
}

type pointColor struct {
	Color [3]float32 `gekko:"layout" format:"float3" location:"1"`
}

type gpuMesh struct {
	vertices   *wgpu.Buffer
	indices    *wgpu.Buffer
	indexCount uint32
	version    uint
}

type gpuDraw struct {
	uniform *wgpu.Buffer
	group   *wgpu.BindGroup
	seen    uint64
}

type gpuPoints struct {
	gpuDraw
	positions *wgpu.Buffer
	colors    *wgpu.Buffer
	count     uint32
	version   uint
	uploaded  bool
}

type gpuOverlay struct {
	id            AssetId
	version       uint
	width, height uint32
	texture       *wgpu.Texture
	view          *wgpu.TextureView
	group         *wgpu.BindGroup
}

// WGPURenderer draws RenderFrames into the shared window with WebGPU: opaque
// meshes, point clouds, transparent meshes back to front, then the overlay.
type WGPURenderer struct {
	window *WindowState
	gpu    *GpuState
	logger Logger

	sceneLayout *wgpu.BindGroupLayout
	drawLayout  *wgpu.BindGroupLayout
	sceneBuf    *wgpu.Buffer
	sceneGroup  *wgpu.BindGroup
	sampler     *wgpu.Sampler

	meshOpaque      *wgpu.RenderPipeline
	meshBlend       *wgpu.RenderPipeline
	meshAdditive    *wgpu.RenderPipeline
	pointsBlend     *wgpu.RenderPipeline
	pointsAdditive  *wgpu.RenderPipeline
	overlayPipeline *wgpu.RenderPipeline

	meshes     map[AssetId]*gpuMesh
	meshDraws  map[EntityId]*gpuDraw
	pointSets  map[EntityId]*gpuPoints
	overlay    gpuOverlay
	frameCount uint64
}

func NewWGPURenderer(ws *WindowState, logger Logger) (*WGPURenderer, error) {
	g, err := createGpuState(ws)
	if err != nil {
		return nil, err
	}
	r := &WGPURenderer{
		window:    ws,
		gpu:       g,
		logger:    logger,
		meshes:    make(map[AssetId]*gpuMesh),
		meshDraws: make(map[EntityId]*gpuDraw),
		pointSets: make(map[EntityId]*gpuPoints),
	}
	if err := r.init(); err != nil {
		r.Close()
		return nil, err
	}
	logger.Infof("WebGPU renderer ready (%v, srgb=%v)", g.surfaceConfig.Format, g.srgb)
	return r, nil
}

func (r *WGPURenderer) init() error {
	device := r.gpu.device
	var err error

	r.sceneLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Scene BGL",
		Entries: []wgpu.BindGroupLayoutEntry{uniformLayoutEntry(0, uint64(unsafe.Sizeof(sceneUniform{})))},
	})
	if err != nil {
		return fmt.Errorf("scene layout: %w", err)
	}
	r.drawLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Draw BGL",
		Entries: []wgpu.BindGroupLayoutEntry{uniformLayoutEntry(0, uint64(unsafe.Sizeof(drawUniform{})))},
	})
	if err != nil {
		return fmt.Errorf("draw layout: %w", err)
	}
	r.sceneBuf, r.sceneGroup, err = createUniformGroup(device, r.sceneLayout, "Scene Uniform", uint64(unsafe.Sizeof(sceneUniform{})))
	if err != nil {
		return err
	}
	r.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("sampler: %w", err)
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Scene Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.sceneLayout, r.drawLayout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}
	defer layout.Release()

	meshShader, err := createShader(device, "Mesh Shader", shaders.CommonWGSL+shaders.MeshWGSL)
	if err != nil {
		return err
	}
	defer meshShader.Release()
	meshBuffers := []wgpu.VertexBufferLayout{createVertexBufferLayout(MeshVertex{}, wgpu.VertexStepModeVertex)}
	if r.meshOpaque, err = r.createPipeline("Mesh Opaque", meshShader, layout, meshBuffers, nil, depthState(true)); err != nil {
		return err
	}
	if r.meshBlend, err = r.createPipeline("Mesh Blend", meshShader, layout, meshBuffers, blendFor(BlendNormal), depthState(false)); err != nil {
		return err
	}
	if r.meshAdditive, err = r.createPipeline("Mesh Additive", meshShader, layout, meshBuffers, blendFor(BlendAdditive), depthState(false)); err != nil {
		return err
	}

	pointShader, err := createShader(device, "Points Shader", shaders.CommonWGSL+shaders.PointsWGSL)
	if err != nil {
		return err
	}
	defer pointShader.Release()
	pointBuffers := []wgpu.VertexBufferLayout{
		createVertexBufferLayout(pointVertex{}, wgpu.VertexStepModeInstance),
		createVertexBufferLayout(pointColor{}, wgpu.VertexStepModeInstance),
	}
	if r.pointsBlend, err = r.createPipeline("Points Blend", pointShader, layout, pointBuffers, blendFor(BlendNormal), depthState(false)); err != nil {
		return err
	}
	if r.pointsAdditive, err = r.createPipeline("Points Additive", pointShader, layout, pointBuffers, blendFor(BlendAdditive), depthState(false)); err != nil {
		return err
	}

	overlayShader, err := createShader(device, "Overlay Shader", shaders.OverlayWGSL)
	if err != nil {
		return err
	}
	defer overlayShader.Release()
	premultiplied := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			Operation: wgpu.BlendOperationAdd,
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		},
		Alpha: wgpu.BlendComponent{
			Operation: wgpu.BlendOperationAdd,
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		},
	}
	overlayDepth := depthState(false)
	overlayDepth.DepthCompare = wgpu.CompareFunctionAlways
	// nil layout: the overlay bind group comes from GetBindGroupLayout(0).
	r.overlayPipeline, err = r.createPipeline("Overlay", overlayShader, nil, nil, premultiplied, overlayDepth)
	return err
}

func (r *WGPURenderer) createPipeline(label string, shader *wgpu.ShaderModule, layout *wgpu.PipelineLayout, buffers []wgpu.VertexBufferLayout, blend *wgpu.BlendState, depth *wgpu.DepthStencilState) (*wgpu.RenderPipeline, error) {
	pipeline, err := r.gpu.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    r.gpu.surfaceConfig.Format,
				Blend:     blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depth,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", label, err)
	}
	return pipeline, nil
}

func (r *WGPURenderer) Render(frame *RenderFrame, assets *AssetServer) error {
	r.frameCount++
	if err := r.gpu.resize(frame.Width, frame.Height); err != nil {
		return err
	}
	if err := r.writeScene(frame); err != nil {
		return err
	}
	if err := r.syncOverlay(frame.Overlay, assets); err != nil {
		// The scene still draws without the overlay.
		r.logger.Warnf("overlay upload: %v", err)
	}

	nextTexture, err := r.gpu.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := r.gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	clear := frame.Clear
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(clear.R), G: float64(clear.G), B: float64(clear.B), A: 1},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.gpu.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	pass.SetBindGroup(0, r.sceneGroup, nil)

	var drawErr error
	pass.SetPipeline(r.meshOpaque)
	for _, d := range frame.Opaque {
		drawErr = errors.Join(drawErr, r.drawMesh(pass, d, assets))
	}
	for _, p := range frame.Points {
		drawErr = errors.Join(drawErr, r.drawPoints(pass, p))
	}
	for _, d := range frame.Transparent {
		if d.Material.Blending == BlendAdditive {
			pass.SetPipeline(r.meshAdditive)
		} else {
			pass.SetPipeline(r.meshBlend)
		}
		drawErr = errors.Join(drawErr, r.drawMesh(pass, d, assets))
	}
	if r.overlay.group != nil {
		pass.SetPipeline(r.overlayPipeline)
		pass.SetBindGroup(0, r.overlay.group, nil)
		pass.Draw(3, 1, 0, 0)
	}

	if err := pass.End(); err != nil {
		return fmt.Errorf("render pass end: %w", err)
	}
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	defer cmd.Release()
	r.gpu.queue.Submit(cmd)
	r.gpu.surface.Present()

	r.prune()
	return drawErr
}

func (r *WGPURenderer) writeScene(frame *RenderFrame) error {
	proj := wgpuClip.Mul4(frame.Camera.Projection)
	u := sceneUniform{
		ViewProj: proj.Mul4(frame.Camera.View),
		View:     frame.Camera.View,
		Eye:      frame.Camera.Eye.Vec4(1),
		Viewport: [4]float32{float32(frame.Width), float32(frame.Height), frame.Elapsed, 0},
		Fog:      frame.FogColor.Vec4(1),
		FogRange: [4]float32{frame.FogNear, frame.FogFar, 0, 0},
	}
	if !r.gpu.srgb {
		u.Viewport[3] = 1
	}
	n := 0
	for _, l := range frame.Lights {
		if l.Type == LightTypeAmbient {
			u.Ambient[0] += l.Color.R * l.Intensity
			u.Ambient[1] += l.Color.G * l.Intensity
			u.Ambient[2] += l.Color.B * l.Intensity
			continue
		}
		if n == maxLights {
			continue
		}
		gl := gpuLight{
			Position: l.Position.Vec4(1),
			Color:    [4]float32{l.Color.R * l.Intensity, l.Color.G * l.Intensity, l.Color.B * l.Intensity, l.Range},
		}
		if l.Type == LightTypeSpot {
			gl.Params = [4]float32{math32.Cos(l.ConeAngle), 1, 0, 0}
		}
		u.Lights[n] = gl
		n++
	}
	u.FogRange[2] = float32(n)
	return r.gpu.queue.WriteBuffer(r.sceneBuf, 0, wgpu.ToBytes([]sceneUniform{u}))
}

// wgpuClip remaps OpenGL clip depth [-1, 1] to WebGPU's [0, 1].
var wgpuClip = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

func (r *WGPURenderer) drawMesh(pass *wgpu.RenderPassEncoder, d MeshDraw, assets *AssetServer) error {
	m, err := r.mesh(d.Mesh, assets)
	if err != nil || m == nil {
		return err
	}
	slot, err := r.drawSlot(r.meshDraws, d.Entity)
	if err != nil {
		return err
	}
	mat := d.Material
	u := drawUniform{
		Model:     d.Model,
		NormalMat: d.Model.Inv().Transpose(),
		Color:     mat.Color.Vec4(mat.Opacity),
		Emissive: [4]float32{
			mat.Emissive.R * mat.EmissiveIntensity,
			mat.Emissive.G * mat.EmissiveIntensity,
			mat.Emissive.B * mat.EmissiveIntensity,
			0,
		},
		Params: [4]float32{mat.Metalness, mat.Roughness, 0, 0},
	}
	if mat.Unlit {
		u.Emissive[3] = 1
	}
	if err := r.gpu.queue.WriteBuffer(slot.uniform, 0, wgpu.ToBytes([]drawUniform{u})); err != nil {
		return err
	}
	pass.SetBindGroup(1, slot.group, nil)
	pass.SetVertexBuffer(0, m.vertices, 0, m.vertices.GetSize())
	pass.SetIndexBuffer(m.indices, wgpu.IndexFormatUint32, 0, m.indices.GetSize())
	pass.DrawIndexed(m.indexCount, 1, 0, 0, 0)
	return nil
}

func (r *WGPURenderer) mesh(id AssetId, assets *AssetServer) (*gpuMesh, error) {
	asset, ok := assets.Mesh(id)
	if !ok || len(asset.Indices) == 0 {
		return nil, nil
	}
	m := r.meshes[id]
	if m != nil && m.version == asset.Version {
		return m, nil
	}
	if m == nil {
		m = &gpuMesh{}
		r.meshes[id] = m
	}
	var err error
	if m.vertices, err = uploadBuffer(r.gpu.device, m.vertices, "Mesh Vertices", wgpu.ToBytes(asset.Vertices), wgpu.BufferUsageVertex); err != nil {
		return nil, err
	}
	if m.indices, err = uploadBuffer(r.gpu.device, m.indices, "Mesh Indices", wgpu.ToBytes(asset.Indices), wgpu.BufferUsageIndex); err != nil {
		return nil, err
	}
	m.indexCount = uint32(len(asset.Indices))
	m.version = asset.Version
	return m, nil
}

func (r *WGPURenderer) drawSlot(slots map[EntityId]*gpuDraw, eid EntityId) (*gpuDraw, error) {
	slot := slots[eid]
	if slot == nil {
		buf, group, err := createUniformGroup(r.gpu.device, r.drawLayout, "Draw Uniform", uint64(unsafe.Sizeof(drawUniform{})))
		if err != nil {
			return nil, err
		}
		slot = &gpuDraw{uniform: buf, group: group}
		slots[eid] = slot
	}
	slot.seen = r.frameCount
	return slot, nil
}

func (r *WGPURenderer) drawPoints(pass *wgpu.RenderPassEncoder, p PointBatch) error {
	set := r.pointSets[p.Entity]
	if set == nil {
		buf, group, err := createUniformGroup(r.gpu.device, r.drawLayout, "Points Uniform", uint64(unsafe.Sizeof(drawUniform{})))
		if err != nil {
			return err
		}
		set = &gpuPoints{gpuDraw: gpuDraw{uniform: buf, group: group}}
		r.pointSets[p.Entity] = set
	}
	set.seen = r.frameCount

	if !set.uploaded || set.version != p.Version {
		var err error
		if set.positions, err = uploadBuffer(r.gpu.device, set.positions, "Point Positions", wgpu.ToBytes(p.Buffer.Positions), wgpu.BufferUsageVertex); err != nil {
			return err
		}
		if set.colors, err = uploadBuffer(r.gpu.device, set.colors, "Point Colors", wgpu.ToBytes(p.Buffer.Colors), wgpu.BufferUsageVertex); err != nil {
			return err
		}
		set.count = uint32(p.Buffer.Len())
		set.version = p.Version
		set.uploaded = true
	}

	u := drawUniform{
		Model:  p.Model,
		Color:  [4]float32{1, 1, 1, p.Opacity},
		Params: [4]float32{0, 0, p.Size, 0},
	}
	if err := r.gpu.queue.WriteBuffer(set.uniform, 0, wgpu.ToBytes([]drawUniform{u})); err != nil {
		return err
	}
	if p.Blending == BlendAdditive {
		pass.SetPipeline(r.pointsAdditive)
	} else {
		pass.SetPipeline(r.pointsBlend)
	}
	pass.SetBindGroup(1, set.group, nil)
	pass.SetVertexBuffer(0, set.positions, 0, set.positions.GetSize())
	pass.SetVertexBuffer(1, set.colors, 0, set.colors.GetSize())
	pass.Draw(6, set.count, 0, 0)
	return nil
}

func (r *WGPURenderer) syncOverlay(id AssetId, assets *AssetServer) error {
	if id == "" {
		return nil
	}
	tex, ok := assets.Texture(id)
	if !ok || tex.Width == 0 || tex.Height == 0 {
		return nil
	}
	o := &r.overlay
	if o.id == id && o.version == tex.Version && o.group != nil {
		return nil
	}

	extent := wgpu.Extent3D{Width: tex.Width, Height: tex.Height, DepthOrArrayLayers: 1}
	if o.texture == nil || o.width != tex.Width || o.height != tex.Height {
		r.releaseOverlay()
		texture, err := r.gpu.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "Overlay Texture",
			Size:          extent,
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        wgpuTextureFormat(tex.Format, r.gpu.srgb),
			Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create overlay texture: %w", err)
		}
		view, err := texture.CreateView(nil)
		if err != nil {
			texture.Release()
			return fmt.Errorf("create overlay view: %w", err)
		}
		bgl := r.overlayPipeline.GetBindGroupLayout(0)
		defer bgl.Release()
		group, err := r.gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout: bgl,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: view},
				{Binding: 1, Sampler: r.sampler},
			},
		})
		if err != nil {
			view.Release()
			texture.Release()
			return fmt.Errorf("create overlay bind group: %w", err)
		}
		o.texture, o.view, o.group = texture, view, group
		o.width, o.height = tex.Width, tex.Height
	}

	err := r.gpu.queue.WriteTexture(
		o.texture.AsImageCopy(),
		tex.Texels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  tex.Width * 4,
			RowsPerImage: tex.Height,
		},
		&extent,
	)
	if err != nil {
		return fmt.Errorf("write overlay texture: %w", err)
	}
	o.id, o.version = id, tex.Version
	return nil
}

func (r *WGPURenderer) releaseOverlay() {
	o := &r.overlay
	if o.group != nil {
		o.group.Release()
	}
	if o.view != nil {
		o.view.Release()
	}
	if o.texture != nil {
		o.texture.Release()
	}
	*o = gpuOverlay{}
}

// prune frees per-entity buffers for entities that were not drawn this frame.
func (r *WGPURenderer) prune() {
	for eid, slot := range r.meshDraws {
		if slot.seen != r.frameCount {
			slot.release()
			delete(r.meshDraws, eid)
		}
	}
	for eid, set := range r.pointSets {
		if set.seen != r.frameCount {
			set.release()
			delete(r.pointSets, eid)
		}
	}
}

func (d *gpuDraw) release() {
	d.group.Release()
	d.uniform.Release()
}

func (p *gpuPoints) release() {
	p.gpuDraw.release()
	if p.positions != nil {
		p.positions.Release()
	}
	if p.colors != nil {
		p.colors.Release()
	}
}

func (r *WGPURenderer) Close() error {
	if r.gpu == nil {
		return nil
	}
	for _, slot := range r.meshDraws {
		slot.release()
	}
	for _, set := range r.pointSets {
		set.release()
	}
	for _, m := range r.meshes {
		if m.vertices != nil {
			m.vertices.Release()
		}
		if m.indices != nil {
			m.indices.Release()
		}
	}
	r.releaseOverlay()
	for _, p := range []*wgpu.RenderPipeline{r.meshOpaque, r.meshBlend, r.meshAdditive, r.pointsBlend, r.pointsAdditive, r.overlayPipeline} {
		if p != nil {
			p.Release()
		}
	}
	if r.sceneGroup != nil {
		r.sceneGroup.Release()
		r.sceneBuf.Release()
	}
	if r.sampler != nil {
		r.sampler.Release()
	}
	if r.drawLayout != nil {
		r.drawLayout.Release()
	}
	if r.sceneLayout != nil {
		r.sceneLayout.Release()
	}
	r.gpu.release()
	r.gpu = nil
	return nil
}
