package mp4tags

import (
	"encoding/binary"
	"strconv"
	"strings"

	mp4 "github.com/abema/go-mp4"

	"mediaorganizer/internal/media"
)

var (
	typeMoov = mp4.BoxTypeMoov()
	typeTrak = mp4.BoxTypeTrak()
	typeMdia = mp4.BoxTypeMdia()
	typeMinf = mp4.BoxTypeMinf()
	typeStbl = mp4.BoxTypeStbl()
	typeStco = mp4.BoxTypeStco()
	typeCo64 = mp4.BoxTypeCo64()
	typeUdta = mp4.BoxTypeUdta()
	typeMeta = mp4.BoxTypeMeta()
	typeHdlr = mp4.BoxTypeHdlr()
	typeIlst = mp4.BoxTypeIlst()
	typeData = mp4.BoxTypeData()

	typeTitle   = mp4.BoxType{0xA9, 'n', 'a', 'm'}
	typeSeason  = mp4.StrToBoxType("tvsn")
	typeEpisode = mp4.StrToBoxType("tves")
	typeGenre   = mp4.BoxType{0xA9, 'g', 'e', 'n'}
	typeYear    = mp4.BoxType{0xA9, 'd', 'a', 'y'}

	handlerMetadata = [4]byte{'m', 'd', 'i', 'r'}
)

// tag is one ilst item ready to be written.
type tag struct {
	kind mp4.BoxType
	data mp4.Data
}

// tagsFor converts the set fields of meta into ilst items. Collection has no
// standard atom and is not stored.
func tagsFor(meta media.Metadata) []tag {
	tags := make([]tag, 0, 5)
	if meta.Title != "" {
		tags = append(tags, textTag(typeTitle, meta.Title))
	}
	if meta.Season > 0 {
		tags = append(tags, intTag(typeSeason, meta.Season))
	}
	if meta.Episode > 0 {
		tags = append(tags, intTag(typeEpisode, meta.Episode))
	}
	if meta.Genre != "" {
		tags = append(tags, textTag(typeGenre, meta.Genre))
	}
	if meta.Year > 0 {
		tags = append(tags, textTag(typeYear, strconv.Itoa(meta.Year)))
	}
	return tags
}

func textTag(kind mp4.BoxType, value string) tag {
	return tag{kind: kind, data: mp4.Data{DataType: mp4.DataTypeStringUTF8, Data: []byte(value)}}
}

func intTag(kind mp4.BoxType, value int) tag {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(int32(value)))
	return tag{kind: kind, data: mp4.Data{DataType: mp4.DataTypeSignedIntBigEndian, Data: buf}}
}

// applyTag copies one decoded ilst value into meta. It reports false for
// atoms the editor does not track.
func applyTag(meta *media.Metadata, kind mp4.BoxType, data *mp4.Data) bool {
	switch kind {
	case typeTitle:
		meta.Title = string(data.Data)
	case typeSeason:
		meta.Season = decodeInt(data.Data)
	case typeEpisode:
		meta.Episode = decodeInt(data.Data)
	case typeGenre:
		meta.Genre = string(data.Data)
	case typeYear:
		meta.Year = parseYear(string(data.Data))
	default:
		return false
	}
	return true
}

func trackedTag(kind mp4.BoxType) bool {
	switch kind {
	case typeTitle, typeSeason, typeEpisode, typeGenre, typeYear:
		return true
	}
	return false
}

// decodeInt reads a big-endian signed integer of 1, 2, 4 or 8 bytes.
func decodeInt(b []byte) int {
	switch len(b) {
	case 1:
		return int(int8(b[0]))
	case 2:
		return int(int16(binary.BigEndian.Uint16(b)))
	case 4:
		return int(int32(binary.BigEndian.Uint32(b)))
	case 8:
		return int(int64(binary.BigEndian.Uint64(b)))
	}
	return 0
}

// parseYear accepts "2024" as well as dates such as "2024-01-15".
func parseYear(value string) int {
	value = strings.TrimSpace(value)
	if len(value) > 4 {
		value = value[:4]
	}
	year, err := strconv.Atoi(value)
	if err != nil || year < 0 {
		return 0
	}
	return year
}
