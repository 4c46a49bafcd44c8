package service

import (
	"bytes"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/fathima-sithara/social-service/internal/media"
)

var avatarFormats = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/jpg":  imaging.JPEG,
	"image/png":  imaging.PNG,
}

// squareAvatar center-crops JPEG and PNG profile pictures to size x size.
// Other types, and images that fail to decode, are passed through.
func squareAvatar(f media.File, size int) (media.File, error) {
	format, ok := avatarFormats[strings.ToLower(f.MimeType)]
	if !ok || size <= 0 || f.Data == nil {
		return f, nil
	}
	data, err := io.ReadAll(f.Data)
	if err != nil {
		return f, err
	}
	f.Data = bytes.NewReader(data)

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return f, nil
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos), format); err != nil {
		return f, nil
	}
	f.Data = bytes.NewReader(buf.Bytes())
	f.Size = int64(buf.Len())
	return f, nil
}
