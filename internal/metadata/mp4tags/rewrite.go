package mp4tags

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	mp4 "github.com/abema/go-mp4"

	"mediaorganizer/internal/services"
)

// chunkTable locates the entry array of one stco or co64 box in the output.
type chunkTable struct {
	offset int64
	count  uint32
	wide   bool
}

// rewriter copies an MPEG-4 file box by box, replacing the ilst items named
// in tags and creating udta/meta/ilst when they are missing.
type rewriter struct {
	src  *os.File
	w    *mp4.Writer
	tags []tag

	emitted map[mp4.BoxType]bool
	tables  []chunkTable

	moovSeen bool
	udtaSeen bool
	metaSeen bool
	ilstSeen bool

	oldMoov mp4.BoxInfo
	newMoov mp4.BoxInfo
}

func newRewriter(src *os.File, dst io.WriteSeeker, tags []tag) *rewriter {
	return &rewriter{
		src:     src,
		w:       mp4.NewWriter(dst),
		tags:    tags,
		emitted: make(map[mp4.BoxType]bool, len(tags)),
	}
}

// run copies the source into the output. Chunk offsets are left untouched;
// see shiftChunkOffsets.
func (rw *rewriter) run() error {
	if _, err := mp4.ReadBoxStructure(rw.src, rw.handle); err != nil {
		return err
	}
	if !rw.moovSeen {
		return fmt.Errorf("%w: no moov box", services.ErrUnsupportedFormat)
	}
	return nil
}

func (rw *rewriter) handle(h *mp4.ReadHandle) (interface{}, error) {
	p := h.Path
	switch {
	case pathIs(p, typeMoov) && !rw.moovSeen:
		rw.moovSeen = true
		rw.oldMoov = h.BoxInfo
		bi, err := rw.container(h, rw.finishMoov)
		if err != nil {
			return nil, err
		}
		rw.newMoov = *bi
		return nil, nil
	case pathIs(p, typeMoov, typeTrak),
		pathIs(p, typeMoov, typeTrak, typeMdia),
		pathIs(p, typeMoov, typeTrak, typeMdia, typeMinf),
		pathIs(p, typeMoov, typeTrak, typeMdia, typeMinf, typeStbl):
		_, err := rw.container(h, nil)
		return nil, err
	case pathIs(p, typeMoov, typeTrak, typeMdia, typeMinf, typeStbl, typeStco),
		pathIs(p, typeMoov, typeTrak, typeMdia, typeMinf, typeStbl, typeCo64):
		return nil, rw.chunkOffsets(h)
	case pathIs(p, typeMoov, typeUdta) && !rw.udtaSeen:
		rw.udtaSeen = true
		_, err := rw.container(h, rw.finishUdta)
		return nil, err
	case pathIs(p, typeMoov, typeUdta, typeMeta) && !rw.metaSeen:
		rw.metaSeen = true
		_, err := rw.container(h, rw.finishMeta)
		return nil, err
	case pathIs(p, typeMoov, typeUdta, typeMeta, typeIlst) && !rw.ilstSeen:
		rw.ilstSeen = true
		_, err := rw.container(h, rw.writePendingTags)
		return nil, err
	case len(p) == 5 && pathIs(p[:4], typeMoov, typeUdta, typeMeta, typeIlst):
		return nil, rw.item(h)
	default:
		bi := h.BoxInfo
		return nil, rw.w.CopyBox(rw.src, &bi)
	}
}

// container re-emits a box header and its own payload fields, then walks the
// children and runs finish before the box is closed.
func (rw *rewriter) container(h *mp4.ReadHandle, finish func() error) (*mp4.BoxInfo, error) {
	bi := h.BoxInfo
	if _, err := rw.w.StartBox(&bi); err != nil {
		return nil, err
	}
	_, n, err := h.ReadPayload()
	if err != nil {
		return nil, err
	}
	// Copy the raw prefix so QuickTime-style meta boxes without a full box
	// header round-trip unchanged.
	if n > 0 {
		section := io.NewSectionReader(rw.src, int64(bi.Offset+bi.HeaderSize), int64(n))
		if _, err := io.Copy(rw.w, section); err != nil {
			return nil, err
		}
	}
	if _, err := h.Expand(); err != nil {
		return nil, err
	}
	if finish != nil {
		if err := finish(); err != nil {
			return nil, err
		}
	}
	return rw.w.EndBox()
}

func (rw *rewriter) chunkOffsets(h *mp4.ReadHandle) error {
	bi := h.BoxInfo
	box, _, err := h.ReadPayload()
	if err != nil {
		return err
	}
	pos, err := rw.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	// full box header (4) and entry count (4) precede the entries
	table := chunkTable{offset: pos + int64(bi.HeaderSize) + 8}
	switch typed := box.(type) {
	case *mp4.Stco:
		table.count = typed.EntryCount
	case *mp4.Co64:
		table.count = typed.EntryCount
		table.wide = true
	default:
		return fmt.Errorf("unexpected %s payload %T", bi.Type, box)
	}
	rw.tables = append(rw.tables, table)
	return rw.w.CopyBox(rw.src, &bi)
}

func (rw *rewriter) item(h *mp4.ReadHandle) error {
	kind := h.BoxInfo.Type
	for _, t := range rw.tags {
		if t.kind != kind {
			continue
		}
		if rw.emitted[kind] {
			// duplicate of an item already replaced
			return nil
		}
		rw.emitted[kind] = true
		return rw.writeTag(t)
	}
	bi := h.BoxInfo
	return rw.w.CopyBox(rw.src, &bi)
}

func (rw *rewriter) writePendingTags() error {
	for _, t := range rw.tags {
		if rw.emitted[t.kind] {
			continue
		}
		rw.emitted[t.kind] = true
		if err := rw.writeTag(t); err != nil {
			return err
		}
	}
	return nil
}

func (rw *rewriter) writeTag(t tag) error {
	if _, err := rw.w.StartBox(&mp4.BoxInfo{Type: t.kind}); err != nil {
		return err
	}
	if _, err := rw.w.StartBox(&mp4.BoxInfo{Type: typeData}); err != nil {
		return err
	}
	data := t.data
	if _, err := mp4.Marshal(rw.w, &data, mp4.Context{UnderIlst: true, UnderIlstMeta: true}); err != nil {
		return err
	}
	if _, err := rw.w.EndBox(); err != nil {
		return err
	}
	_, err := rw.w.EndBox()
	return err
}

func (rw *rewriter) finishMoov() error {
	if rw.udtaSeen {
		return nil
	}
	rw.udtaSeen = true
	if _, err := rw.w.StartBox(&mp4.BoxInfo{Type: typeUdta}); err != nil {
		return err
	}
	if err := rw.finishUdta(); err != nil {
		return err
	}
	_, err := rw.w.EndBox()
	return err
}

func (rw *rewriter) finishUdta() error {
	if rw.metaSeen {
		return nil
	}
	rw.metaSeen = true
	ctx := mp4.Context{UnderUdta: true}
	if _, err := rw.w.StartBox(&mp4.BoxInfo{Type: typeMeta}); err != nil {
		return err
	}
	if _, err := mp4.Marshal(rw.w, &mp4.Meta{}, ctx); err != nil {
		return err
	}
	if _, err := rw.w.StartBox(&mp4.BoxInfo{Type: typeHdlr}); err != nil {
		return err
	}
	if _, err := mp4.Marshal(rw.w, &mp4.Hdlr{HandlerType: handlerMetadata}, ctx); err != nil {
		return err
	}
	if _, err := rw.w.EndBox(); err != nil {
		return err
	}
	if err := rw.finishMeta(); err != nil {
		return err
	}
	_, err := rw.w.EndBox()
	return err
}

func (rw *rewriter) finishMeta() error {
	if rw.ilstSeen {
		return nil
	}
	rw.ilstSeen = true
	if _, err := rw.w.StartBox(&mp4.BoxInfo{Type: typeIlst}); err != nil {
		return err
	}
	if err := rw.writePendingTags(); err != nil {
		return err
	}
	_, err := rw.w.EndBox()
	return err
}

// delta is the change in moov size introduced by the rewrite.
func (rw *rewriter) delta() int64 {
	return int64(rw.newMoov.Size) - int64(rw.oldMoov.Size)
}

// shiftChunkOffsets adds delta to every chunk offset at or beyond the end of
// the original moov box. Offsets before it address data that did not move.
func shiftChunkOffsets(f *os.File, tables []chunkTable, threshold uint64, delta int64) error {
	if delta == 0 {
		return nil
	}
	for _, table := range tables {
		width := 4
		if table.wide {
			width = 8
		}
		buf := make([]byte, int(table.count)*width)
		if _, err := f.ReadAt(buf, table.offset); err != nil {
			return fmt.Errorf("read chunk offsets: %w", err)
		}
		for i := 0; i < int(table.count); i++ {
			entry := buf[i*width : (i+1)*width]
			if table.wide {
				value := binary.BigEndian.Uint64(entry)
				if value >= threshold {
					binary.BigEndian.PutUint64(entry, uint64(int64(value)+delta))
				}
				continue
			}
			value := uint64(binary.BigEndian.Uint32(entry))
			if value < threshold {
				continue
			}
			shifted := int64(value) + delta
			if shifted < 0 || shifted > math.MaxUint32 {
				return errors.New("chunk offset overflows stco; file needs co64")
			}
			binary.BigEndian.PutUint32(entry, uint32(shifted))
		}
		if _, err := f.WriteAt(buf, table.offset); err != nil {
			return fmt.Errorf("write chunk offsets: %w", err)
		}
	}
	return nil
}

func pathIs(p mp4.BoxPath, types ...mp4.BoxType) bool {
	if len(p) != len(types) {
		return false
	}
	for i := range types {
		if p[i] != types[i] {
			return false
		}
	}
	return true
}
