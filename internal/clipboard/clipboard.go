// Package clipboard moves images between the tool and the system clipboard.
// Images are exchanged as PNG.
package clipboard

import "errors"

// ErrNoImage is returned when the clipboard holds no image data.
var ErrNoImage = errors.New("clipboard does not contain image data")
