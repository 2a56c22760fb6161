// Package formats provides readers and writers for the mesh, material and
// image files produced by a bake.
package formats

// Note: OBJ geometry is implemented in obj.go, MTL materials in mtl.go
// Note: texture encoders live in image.go, with the TGA codec in tga.go
