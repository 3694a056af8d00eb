package greetcard

import (
	"fmt"

	"github.com/google/uuid"
)

type AssetId string

type TextureFormat uint32

const (
	TextureFormatRGBA8Unorm TextureFormat = 0x00000012
)

// AssetServer owns CPU-side copies of meshes and textures. Renderers upload
// an asset when they first see its id and again whenever its version moves.
type AssetServer struct {
	meshes   map[AssetId]MeshAsset
	textures map[AssetId]TextureAsset
}

type AssetServerModule struct{}

type MeshAsset struct {
	Version  uint
	Vertices []MeshVertex
	Indices  []uint32
}

type TextureAsset struct {
	Version uint
	Texels  []uint8
	Width   uint32
	Height  uint32
	Format  TextureFormat
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		meshes:   make(map[AssetId]MeshAsset),
		textures: make(map[AssetId]TextureAsset),
	}
}

func (server *AssetServer) LoadMesh(geom Geometry) AssetId {
	id := makeAssetId()
	server.meshes[id] = MeshAsset{
		Vertices: geom.Vertices,
		Indices:  geom.Indices,
	}
	return id
}

func (server *AssetServer) Mesh(id AssetId) (MeshAsset, bool) {
	m, ok := server.meshes[id]
	return m, ok
}

func (server *AssetServer) MeshCount() int {
	return len(server.meshes)
}

func (server *AssetServer) CreateTexture(texels []uint8, texWidth uint32, texHeight uint32, format TextureFormat) AssetId {
	id := makeAssetId()
	server.textures[id] = TextureAsset{
		Texels: texels,
		Width:  texWidth,
		Height: texHeight,
		Format: format,
	}
	return id
}

// UpdateTexture replaces the texels of an existing texture and bumps its
// version. Size changes are allowed.
func (server *AssetServer) UpdateTexture(id AssetId, texels []uint8, texWidth, texHeight uint32) error {
	tex, ok := server.textures[id]
	if !ok {
		return fmt.Errorf("texture %s not found", id)
	}
	tex.Version++
	tex.Texels = texels
	tex.Width = texWidth
	tex.Height = texHeight
	server.textures[id] = tex
	return nil
}

func (server *AssetServer) Texture(id AssetId) (TextureAsset, bool) {
	t, ok := server.textures[id]
	return t, ok
}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(NewAssetServer())
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
