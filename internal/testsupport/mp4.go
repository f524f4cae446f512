package testsupport

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	mp4 "github.com/abema/go-mp4"
)

// MP4Options shapes the synthetic file produced by WriteMP4.
type MP4Options struct {
	// MoovAfterMdat places the sample data before the movie box.
	MoovAfterMdat bool
	// Wide uses a co64 chunk offset table instead of stco.
	Wide bool
	// Payload is the mdat content; a short fixed pattern is used when empty.
	Payload []byte
}

// DefaultMP4Payload is the mdat content written when MP4Options.Payload is empty.
var DefaultMP4Payload = bytes.Repeat([]byte("sample-data!"), 8)

// WriteMP4 writes a minimal MPEG-4 file with one track whose single chunk
// points at the mdat payload.
func WriteMP4(t testing.TB, path string, opts MP4Options) {
	t.Helper()

	payload := opts.Payload
	if len(payload) == 0 {
		payload = DefaultMP4Payload
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := mp4.NewWriter(f)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("write mp4 %s: %v", path, err)
		}
	}

	_, err = w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeFtyp()})
	must(err)
	_, err = mp4.Marshal(w, &mp4.Ftyp{
		MajorBrand:   [4]byte{'i', 's', 'o', 'm'},
		MinorVersion: 0x200,
		CompatibleBrands: []mp4.CompatibleBrandElem{
			{CompatibleBrand: [4]byte{'i', 's', 'o', 'm'}},
			{CompatibleBrand: [4]byte{'m', 'p', '4', '1'}},
		},
	}, mp4.Context{})
	must(err)
	_, err = w.EndBox()
	must(err)

	if opts.MoovAfterMdat {
		dataOffset, err := writeMdat(w, payload)
		must(err)
		_, err = writeMoov(w, uint64(dataOffset), opts.Wide)
		must(err)
		return
	}

	entryPos, err := writeMoov(w, 0, opts.Wide)
	must(err)
	dataOffset, err := writeMdat(w, payload)
	must(err)
	must(putOffset(f, entryPos, uint64(dataOffset), opts.Wide))
}

func writeMoov(w *mp4.Writer, chunkOffset uint64, wide bool) (int64, error) {
	for _, bt := range []mp4.BoxType{
		mp4.BoxTypeMoov(),
		mp4.BoxTypeTrak(),
		mp4.BoxTypeMdia(),
		mp4.BoxTypeMinf(),
		mp4.BoxTypeStbl(),
	} {
		if _, err := w.StartBox(&mp4.BoxInfo{Type: bt}); err != nil {
			return 0, err
		}
	}

	var table mp4.IBox = &mp4.Stco{EntryCount: 1, ChunkOffset: []uint32{uint32(chunkOffset)}}
	if wide {
		table = &mp4.Co64{EntryCount: 1, ChunkOffset: []uint64{chunkOffset}}
	}
	if _, err := w.StartBox(&mp4.BoxInfo{Type: table.GetType()}); err != nil {
		return 0, err
	}
	pos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	if _, err := mp4.Marshal(w, table, mp4.Context{}); err != nil {
		return 0, err
	}
	for i := 0; i < 6; i++ {
		if _, err := w.EndBox(); err != nil {
			return 0, err
		}
	}
	// full box header and entry count precede the first entry
	return pos + 8, nil
}

func writeMdat(w *mp4.Writer, payload []byte) (int64, error) {
	if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMdat()}); err != nil {
		return 0, err
	}
	pos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(payload); err != nil {
		return 0, err
	}
	if _, err := w.EndBox(); err != nil {
		return 0, err
	}
	return pos, nil
}

func putOffset(f *os.File, pos int64, value uint64, wide bool) error {
	if wide {
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, value)
		_, err := f.WriteAt(buf, pos)
		return err
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(value))
	_, err := f.WriteAt(buf, pos)
	return err
}

// MP4ChunkOffsets returns every stco and co64 entry in path.
func MP4ChunkOffsets(t testing.TB, path string) []uint64 {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	stbl := mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeTrak(), mp4.BoxTypeMdia(), mp4.BoxTypeMinf(), mp4.BoxTypeStbl()}
	boxes, err := mp4.ExtractBoxesWithPayload(f, nil, []mp4.BoxPath{
		append(append(mp4.BoxPath{}, stbl...), mp4.BoxTypeStco()),
		append(append(mp4.BoxPath{}, stbl...), mp4.BoxTypeCo64()),
	})
	if err != nil {
		t.Fatalf("extract chunk offsets from %s: %v", path, err)
	}
	var offsets []uint64
	for _, box := range boxes {
		switch typed := box.Payload.(type) {
		case *mp4.Stco:
			for _, v := range typed.ChunkOffset {
				offsets = append(offsets, uint64(v))
			}
		case *mp4.Co64:
			offsets = append(offsets, typed.ChunkOffset...)
		}
	}
	return offsets
}

// MP4ReadAt returns n bytes of path starting at offset.
func MP4ReadAt(t testing.TB, path string, offset uint64, n int) []byte {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	buf := make([]byte, n)
	if _, err := f.ReadAt(buf, int64(offset)); err != nil {
		t.Fatalf("read %s at %d: %v", path, offset, err)
	}
	return buf
}
