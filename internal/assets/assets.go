package assets

import "golang.org/x/image/font/gofont/goregular"

// FontTTF is the caption font. Go Regular ships with x/image, so the binary
// carries no separate font file.
var FontTTF = goregular.TTF
