package classic

import (
	"fmt"
	"math"

	"github.com/vango-dev/nodeview/internal/errors"
)

// PathFunc computes the SVG path of a connection from its endpoints.
type PathFunc func(start, end Point) (string, error)

// unwiredPath is the placeholder used until WithPath is supplied.
func unwiredPath(start, end Point) (string, error) {
	return "", errors.New("E101").
		WithDetail("The classic preset needs a connection path function to render connections.").
		WithSuggestion("Pass classic.WithPath(classic.CurvedPath(0.3)) or classic.WithPath(classic.StraightPath)")
}

// StraightPath draws a straight line between the endpoints.
func StraightPath(start, end Point) (string, error) {
	return fmt.Sprintf("M %g %g L %g %g", start.X, start.Y, end.X, end.Y), nil
}

// CurvedPath returns a horizontal cubic Bezier with the given curvature.
func CurvedPath(curvature float64) PathFunc {
	return func(start, end Point) (string, error) {
		h := math.Abs(end.X-start.X) * curvature
		return fmt.Sprintf("M %g %g C %g %g %g %g %g %g",
			start.X, start.Y,
			start.X+h, start.Y,
			end.X-h, end.Y,
			end.X, end.Y,
		), nil
	}
}
