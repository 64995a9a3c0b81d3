// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package event defines the record format of a photo event list, a JSON
// document of the form
//
//	{"event": [
//	   {"description": "Spring picnic",
//	    "image": [
//	       {"path": "2023/04/IMG_20230415_121503.jpg",
//	        "date": "2023-04-15 12:15:03",
//	        "with": ["alice", "bob"]}
//	    ]}
//	]}
//
// The types in this package encode and decode themselves by hand through the
// jbind Encoder and Decoder.
package event

import (
	"cmp"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/creachadair/jbind"
	"github.com/creachadair/jbind/value"
)

// Layout is the layout of a timestamp in an event file.
const Layout = "2006-01-02 15:04:05"

// A Timestamp is a time encoded as a string in Layout. It carries no zone;
// decoded timestamps are in UTC.
type Timestamp struct{ time.Time }

// MarshalText implements encoding.TextMarshaler.
func (t Timestamp) MarshalText() ([]byte, error) {
	return t.AppendFormat(nil, Layout), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Timestamp) UnmarshalText(text []byte) error {
	v, err := time.ParseInLocation(Layout, string(text), time.UTC)
	if err != nil {
		return err
	}
	t.Time = v
	return nil
}

// Equal reports whether t and u denote the same wall-clock time.
func (t Timestamp) Equal(u Timestamp) bool { return t.Format(Layout) == u.Format(Layout) }

func (t Timestamp) String() string { return t.Format(Layout) }

// An Image is a single photo belonging to an event.
type Image struct {
	Path string
	Date Timestamp
	With []string // identifiers of the people shown, if any
}

// EncodeFields implements jbind.FieldEncoder.
func (img Image) EncodeFields(e *jbind.Encoder) error {
	e.ObjectBegin(jbind.Self)
	e.EncodeString(jbind.Name("path"), img.Path, jbind.Policy{})
	e.Encode(jbind.Name("date"), img.Date, jbind.Policy{})
	e.Encode(jbind.Name("with"), img.With, jbind.Policy{OmitEmpty: true})
	return e.ObjectEnd()
}

// DecodeFields implements jbind.FieldDecoder. The path and date are
// mandatory.
func (img *Image) DecodeFields(d *jbind.Decoder) error {
	must := jbind.Policy{Mandatory: true}
	if _, err := d.DecodeString(jbind.Name("path"), &img.Path, must); err != nil {
		return err
	}
	if _, err := d.Decode(jbind.Name("date"), &img.Date, must); err != nil {
		return err
	}
	_, err := d.Decode(jbind.Name("with"), &img.With, jbind.Policy{IgnoreNull: true})
	return err
}

// An Event is a described group of images.
type Event struct {
	Description string
	Images      []Image
}

// EncodeFields implements jbind.FieldEncoder.
func (ev Event) EncodeFields(e *jbind.Encoder) error {
	e.ObjectBegin(jbind.Self)
	e.EncodeString(jbind.Name("description"), ev.Description, jbind.Policy{})
	e.ArrayBegin(jbind.Name("image"))
	for _, img := range ev.Images {
		if err := img.EncodeFields(e); err != nil {
			return err
		}
	}
	e.ArrayEnd()
	return e.ObjectEnd()
}

// DecodeFields implements jbind.FieldDecoder.
func (ev *Event) DecodeFields(d *jbind.Decoder) error {
	if _, err := d.DecodeString(jbind.Name("description"), &ev.Description, jbind.Policy{}); err != nil {
		return err
	}
	var err error
	ev.Images, err = decodeArray[Image](d, "image", jbind.Policy{})
	return err
}

// A File is the top-level record of an event list.
type File struct {
	Events []Event
}

// EncodeFields implements jbind.FieldEncoder.
func (f File) EncodeFields(e *jbind.Encoder) error {
	e.ObjectBegin(jbind.Self)
	e.ArrayBegin(jbind.Name("event"))
	for _, ev := range f.Events {
		if err := ev.EncodeFields(e); err != nil {
			return err
		}
	}
	e.ArrayEnd()
	return e.ObjectEnd()
}

// DecodeFields implements jbind.FieldDecoder. The event list is mandatory.
func (f *File) DecodeFields(d *jbind.Decoder) error {
	var err error
	f.Events, err = decodeArray[Event](d, "event", jbind.Policy{Mandatory: true})
	return err
}

// decodeArray decodes the array under key in d, one element at a time.
// A missing, null, or empty array yields nil.
func decodeArray[T any, PT interface {
	*T
	jbind.FieldDecoder
}](d *jbind.Decoder, key string, p jbind.Policy) ([]T, error) {
	var arr value.Array
	if _, err := d.Decode(jbind.Name(key), &arr, p); err != nil || len(arr) == 0 {
		return nil, err
	}
	sub, err := d.Child(key)
	if err != nil {
		return nil, err
	}
	out := make([]T, sub.Size())
	for i := range out {
		elt, err := sub.Element(i)
		if err != nil {
			return nil, err
		}
		if err := PT(&out[i]).DecodeFields(elt); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Load reads and decodes an event file from path.
func Load(path string) (*File, error) {
	d, err := jbind.NewDecoderFile(path, nil)
	if err != nil {
		return nil, err
	}
	f := new(File)
	if err := f.DecodeFields(d); err != nil {
		return nil, err
	}
	return f, nil
}

// Marshal encodes f as JSON text with the given options.
func (f File) Marshal(opts *jbind.EncodeOptions) ([]byte, error) { return jbind.Marshal(f, opts) }

// A Record is a single image with the description of its event, as listed
// before grouping.
type Record struct {
	Description string
	Image
}

// Group assembles records into events. Records are ordered by date, and each
// run of consecutive records with the same description becomes one event.
func Group(recs []Record) []Event {
	sorted := slices.Clone(recs)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return a.Date.Compare(b.Date.Time)
	})
	var out []Event
	for _, r := range sorted {
		if n := len(out); n != 0 && out[n-1].Description == r.Description {
			out[n-1].Images = append(out[n-1].Images, r.Image)
			continue
		}
		out = append(out, Event{Description: r.Description, Images: []Image{r.Image}})
	}
	return out
}

// nameZone is the zone of the capture times embedded in exported file names.
var nameZone = time.FixedZone("UTC+8", 8*60*60)

// DateFromName reports the capture time encoded in the base name of a photo
// file, if any. It understands camera names like IMG_20230415_121503.jpg,
// and exported names ending in a millisecond Unix time such as
// mmexport1681532103000.jpg.
func DateFromName(name string) (Timestamp, bool) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if rest, ok := strings.CutPrefix(base, "IMG_"); ok {
		t, err := time.ParseInLocation("20060102_150405", rest, time.UTC)
		return Timestamp{t}, err == nil
	}
	i := strings.LastIndexFunc(base, func(r rune) bool { return r < '0' || r > '9' })
	digits := base[i+1:]
	if len(digits) < 10 { // too short to be a plausible time
		return Timestamp{}, false
	}
	ms, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Timestamp{}, false
	}
	wall := time.UnixMilli(ms).In(nameZone)
	return Timestamp{time.Date(wall.Year(), wall.Month(), wall.Day(),
		wall.Hour(), wall.Minute(), wall.Second(), 0, time.UTC)}, true
}

// Sort orders the events of f by the date of their first image. Events with
// no images sort first.
func (f *File) Sort() {
	slices.SortStableFunc(f.Events, func(a, b Event) int {
		if len(a.Images) == 0 || len(b.Images) == 0 {
			return cmp.Compare(len(a.Images), len(b.Images))
		}
		return a.Images[0].Date.Compare(b.Images[0].Date.Time)
	})
}
