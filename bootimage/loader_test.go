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

package bootimage_test

import (
	"bytes"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/tbsim/bootimage"
	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/environment"
	"github.com/jetsetilly/tbsim/hardware/memory"
	"github.com/jetsetilly/tbsim/test"
)

func header(entry uint64, version uint32) []byte {
	h := make([]byte, bootimage.HeaderSize)
	copy(h, bootimage.Magic)
	binary.LittleEndian.PutUint32(h[4:], version)
	binary.LittleEndian.PutUint64(h[8:], entry)
	return h
}

func writeImage(t *testing.T, data []byte) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "bootrom.bin")
	test.DemandSuccess(t, os.WriteFile(fn, data, 0o644))
	return fn
}

func newMemory() *memory.GlobalMemory {
	env := environment.NewEnvironment("test", nil)
	env.Normalise()
	return memory.NewGlobalMemory(env)
}

func TestEmbedded(t *testing.T) {
	ld := bootimage.NewLoader("", 0x1000)
	test.DemandSuccess(t, ld.Load())
	test.ExpectSuccess(t, ld.HasHeader())
	test.ExpectEquality(t, ld.ShortName(), bootimage.EmbeddedName)
	test.ExpectEquality(t, ld.Entry(), uint64(0x1010))
	test.ExpectEquality(t, len(ld.Hash), 40)
}

func TestPlacement(t *testing.T) {
	img := append(header(0x80000000, bootimage.HeaderVersion), 0x73, 0x00, 0x50, 0x10, 0x6f, 0xf0, 0xdf, 0xff)
	ld := bootimage.NewLoader(writeImage(t, img), 0x2000)
	test.DemandSuccess(t, ld.Load())

	mem := newMemory()
	test.DemandSuccess(t, ld.Inject(mem))

	got := make([]byte, len(img))
	test.DemandSuccess(t, mem.Read(0x2000, got))
	test.ExpectSuccess(t, bytes.Equal(got, img))
	test.ExpectEquality(t, ld.Entry(), uint64(0x80000000))
}

func TestRawImage(t *testing.T) {
	img := []byte{0x13, 0x00, 0x00, 0x00}

	ld := bootimage.NewLoader(writeImage(t, img), 0x3000)
	test.DemandSuccess(t, ld.Load())
	test.ExpectFailure(t, ld.HasHeader())
	test.ExpectEquality(t, ld.Entry(), uint64(0x3000))

	ld.EntryPoint = 0x3004
	test.ExpectEquality(t, ld.Entry(), uint64(0x3004))
}

func TestMalformed(t *testing.T) {
	ld := bootimage.NewLoader(writeImage(t, []byte{}), 0x1000)
	test.ExpectSuccess(t, curated.Is(ld.Load(), bootimage.EmptyImage))

	ld = bootimage.NewLoader(writeImage(t, []byte("TBRM\x01\x00")), 0x1000)
	test.ExpectSuccess(t, curated.Is(ld.Load(), bootimage.BadHeader))
	test.ExpectFailure(t, ld.HasLoaded())

	ld = bootimage.NewLoader(writeImage(t, header(0, 2)), 0x1000)
	test.ExpectSuccess(t, curated.Is(ld.Load(), bootimage.BadHeader))

	ld = bootimage.NewLoader(filepath.Join(t.TempDir(), "missing.bin"), 0x1000)
	test.ExpectFailure(t, ld.Load())

	ld = bootimage.NewLoader("ftp://example.com/bootrom.bin", 0x1000)
	test.ExpectFailure(t, ld.Load())

	// injecting before loading is a configuration error
	ld = bootimage.NewLoader("", 0x1000)
	test.ExpectSuccess(t, curated.Is(ld.Inject(newMemory()), bootimage.NotLoaded))
}

func TestHash(t *testing.T) {
	ld := bootimage.NewLoader("", 0x1000)
	test.DemandSuccess(t, ld.Load())
	hash := ld.Hash

	ld = bootimage.NewLoader("", 0x1000)
	ld.Hash = hash
	test.ExpectSuccess(t, ld.Load())

	ld = bootimage.NewLoader("", 0x1000)
	ld.Hash = "0000000000000000000000000000000000000000"
	test.ExpectSuccess(t, curated.Is(ld.Load(), bootimage.HashMismatch))
}

func TestHTTP(t *testing.T) {
	img := append(header(0x1010, bootimage.HeaderVersion), 0x13, 0x00, 0x00, 0x00)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bootrom.bin" {
			http.NotFound(w, r)
			return
		}
		w.Write(img)
	}))
	defer srv.Close()

	ld := bootimage.NewLoader(srv.URL+"/bootrom.bin", 0x1000)
	test.DemandSuccess(t, ld.Load())
	test.ExpectSuccess(t, bytes.Equal(ld.Data, img))
	test.ExpectEquality(t, ld.ShortName(), "bootrom")

	ld = bootimage.NewLoader(srv.URL+"/missing.bin", 0x1000)
	test.ExpectFailure(t, ld.Load())
}

func TestOutOfRangeInjection(t *testing.T) {
	env := environment.NewEnvironment("test", nil)
	env.Normalise()
	test.DemandSuccess(t, env.Prefs.Set("memory.size", "0x100"))
	mem := memory.NewGlobalMemory(env)

	ld := bootimage.NewLoader("", 0x1000)
	test.DemandSuccess(t, ld.Load())
	err := ld.Inject(mem)
	test.ExpectSuccess(t, curated.Has(err, memory.OutOfRange))
}
