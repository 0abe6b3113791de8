package pool

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ImageExtension is the file extension of compiled pool images.
const ImageExtension = ".bbi"

// ImageVersion is the image format version written by MarshalImage.
const ImageVersion = 1

type image struct {
	Version int   `cbor:"1,keyasint"`
	File    *File `cbor:"2,keyasint"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic("pool: failed to create CBOR encoder: " + err.Error())
	}
}

// MarshalImage encodes f as a canonical CBOR image. Equal declarations
// encode to equal bytes.
func MarshalImage(f *File) ([]byte, error) {
	return encMode.Marshal(image{Version: ImageVersion, File: f})
}

// UnmarshalImage decodes an image written by MarshalImage.
func UnmarshalImage(data []byte) (*File, error) {
	var img image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("pool: unmarshal image: %w", err)
	}
	if img.Version != ImageVersion {
		return nil, fmt.Errorf("pool: unsupported image version %d", img.Version)
	}
	if img.File == nil {
		return &File{}, nil
	}
	return img.File, nil
}
