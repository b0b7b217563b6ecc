package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Black and White are the two checkerboard colors
var (
	Black = Vec3{0, 0, 0}
	White = Vec3{255, 255, 255}
)
