// This file is part of tbsim.
//
// tbsim is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tbsim is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tbsim.  If not, see <https://www.gnu.org/licenses/>.

package bootimage

import (
	"bytes"
	"crypto/sha1"
	_ "embed"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/hardware/memory/bus"
	"github.com/jetsetilly/tbsim/logger"
)

//go:embed bootrom.bin
var embedded []byte

// EmbeddedName is the ShortName() of a Loader using the embedded image.
const EmbeddedName = "embedded"

// Header layout.
const (
	Magic         = "TBRM"
	HeaderSize    = 16
	HeaderVersion = 1
)

// Sentinel error patterns.
const (
	EmptyImage   = "bootimage: image is empty"
	BadHeader    = "bootimage: bad header: %v"
	HashMismatch = "bootimage: unexpected hash value (%s)"
	NotLoaded    = "bootimage: image has not been loaded"
)

// Loader is used to specify and load the boot image.
type Loader struct {
	// filename or URL of the image. empty string selects the embedded image
	Filename string

	// address the image is injected at
	Base uint64

	// entry point for images without a header. zero means Base
	EntryPoint uint64

	// expected hash of the loaded image. empty string indicates that the hash
	// is unknown and need not be validated. after a load operation the value
	// will be the hash of the loaded data
	Hash string

	// copy of the loaded data
	Data []byte

	// entry point found in the header
	headerEntry uint64
	hasHeader   bool
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(filename string, base uint64) Loader {
	return Loader{
		Filename: strings.TrimSpace(filename),
		Base:     base,
	}
}

// ShortName returns a shortened version of the image filename.
func (ld Loader) ShortName() string {
	if ld.Filename == "" {
		return EmbeddedName
	}
	s := path.Base(ld.Filename)
	return strings.TrimSuffix(s, path.Ext(ld.Filename))
}

// HasLoaded returns true if Load() has been successfully called.
func (ld Loader) HasLoaded() bool {
	return len(ld.Data) > 0
}

// HasHeader returns true if the loaded image begins with a header.
func (ld Loader) HasHeader() bool {
	return ld.hasHeader
}

// Load the image data. Filenames with a http or https scheme are fetched over
// the network, anything else is read from the local filesystem.
func (ld *Loader) Load() error {
	if ld.HasLoaded() {
		return nil
	}

	var data []byte

	if ld.Filename == "" {
		data = make([]byte, len(embedded))
		copy(data, embedded)
	} else {
		scheme := "file"
		if u, err := url.Parse(ld.Filename); err == nil && u.Scheme != "" {
			scheme = u.Scheme
		}

		switch scheme {
		case "http", "https":
			resp, err := http.Get(ld.Filename)
			if err != nil {
				return curated.Errorf("bootimage: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return curated.Errorf("bootimage: %v", resp.Status)
			}

			data, err = io.ReadAll(resp.Body)
			if err != nil {
				return curated.Errorf("bootimage: %v", err)
			}

		case "file":
			var err error
			data, err = os.ReadFile(ld.Filename)
			if err != nil {
				return curated.Errorf("bootimage: %v", err)
			}

		default:
			return curated.Errorf("bootimage: unsupported URL scheme (%s)", scheme)
		}
	}

	if len(data) == 0 {
		return curated.Errorf(EmptyImage)
	}

	hash := fmt.Sprintf("%x", sha1.Sum(data))
	if ld.Hash != "" && ld.Hash != hash {
		return curated.Errorf(HashMismatch, hash)
	}

	if err := ld.parseHeader(data); err != nil {
		return err
	}

	ld.Hash = hash
	ld.Data = data

	return nil
}

func (ld *Loader) parseHeader(data []byte) error {
	ld.hasHeader = false
	ld.headerEntry = 0

	if !bytes.HasPrefix(data, []byte(Magic)) {
		return nil
	}

	if len(data) < HeaderSize {
		return curated.Errorf(BadHeader, fmt.Sprintf("header is truncated (%d bytes)", len(data)))
	}

	version := binary.LittleEndian.Uint32(data[4:8])
	if version != HeaderVersion {
		return curated.Errorf(BadHeader, fmt.Sprintf("unsupported header version (%d)", version))
	}

	ld.hasHeader = true
	ld.headerEntry = binary.LittleEndian.Uint64(data[8:16])

	return nil
}

// Entry returns the address the simulated core should begin execution at.
func (ld Loader) Entry() uint64 {
	if ld.hasHeader {
		return ld.headerEntry
	}
	if ld.EntryPoint != 0 {
		return ld.EntryPoint
	}
	return ld.Base
}

// Inject copies the image into memory at the base address. Every byte is
// enabled.
func (ld Loader) Inject(mem bus.TargetBus) error {
	if !ld.HasLoaded() {
		return curated.Errorf(NotLoaded)
	}

	if err := mem.Write(ld.Base, ld.Data, nil); err != nil {
		return curated.Errorf("bootimage: %v", err)
	}

	logger.Logf(logger.Allow, "bootimage", "wrote %d bytes of bootrom to %#x", len(ld.Data), ld.Base)

	return nil
}

func (ld Loader) String() string {
	return fmt.Sprintf("%s: %d bytes at %#x, entry %#x", ld.ShortName(), len(ld.Data), ld.Base, ld.Entry())
}
