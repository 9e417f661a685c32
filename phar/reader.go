package phar

import (
	"bytes"
	"compress/flate"
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

var ErrCorrupt = errors.New("corrupt archive")

// File is a single file read back from an archive
type File struct {
	Name       string
	Data       []byte
	Timestamp  uint32
	Compressed bool
}

// Archive is the contents of a phar archive
type Archive struct {
	Stub string
	// Serialized metadata, empty if the archive has none
	Metadata string
	Files    []File
}

// reader walks through the archive's bytes, failing on anything out of bounds
type reader struct {
	data   []byte
	offset int
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.offset+n > len(r.data) {
		return nil, fmt.Errorf("%w: unexpected end at offset %d", ErrCorrupt, r.offset)
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

func (r *reader) uint32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) string() (string, error) {
	length, err := r.uint32()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(length))
	return string(b), err
}

// Read parses an archive, checking its signature and the checksum of every
// file
func Read(data []byte) (*Archive, error) {
	end := bytes.Index(data, []byte(haltCompiler))
	if end == -1 {
		return nil, fmt.Errorf("%w: no stub", ErrCorrupt)
	}
	end += len(haltCompiler)
	archive := &Archive{Stub: string(data[:end])}

	// The stub may be followed by a closing tag and a single line break
	if bytes.HasPrefix(data[end:], []byte(" ?>")) {
		end += len(" ?>")
	}
	if bytes.HasPrefix(data[end:], []byte("\r\n")) {
		end += 2
	} else if bytes.HasPrefix(data[end:], []byte("\n")) {
		end++
	}

	if err := checkSignature(data); err != nil {
		return nil, err
	}
	signed := data[:len(data)-len(magic)-4-sha1.Size]

	r := &reader{data: signed, offset: end}
	if _, err := r.uint32(); err != nil {
		return nil, err
	}
	count, err := r.uint32()
	if err != nil {
		return nil, err
	}
	// API version, and global flags
	if _, err := r.bytes(2 + 4); err != nil {
		return nil, err
	}
	if _, err := r.string(); err != nil {
		return nil, err
	}
	if archive.Metadata, err = r.string(); err != nil {
		return nil, err
	}

	type entry struct {
		file       File
		size       uint32
		storedSize uint32
		crc        uint32
	}
	entries := make([]entry, 0, count)
	for i := uint32(0); i < count; i++ {
		var e entry
		var err error
		if e.file.Name, err = r.string(); err != nil {
			return nil, err
		}
		fields := []*uint32{&e.size, &e.file.Timestamp, &e.storedSize, &e.crc}
		for _, field := range fields {
			if *field, err = r.uint32(); err != nil {
				return nil, err
			}
		}
		flags, err := r.uint32()
		if err != nil {
			return nil, err
		}
		e.file.Compressed = flags&flagCompressedGZ != 0
		if _, err := r.string(); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	for _, e := range entries {
		stored, err := r.bytes(int(e.storedSize))
		if err != nil {
			return nil, err
		}
		e.file.Data = stored
		if e.file.Compressed {
			if e.file.Data, err = io.ReadAll(flate.NewReader(bytes.NewReader(stored))); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, e.file.Name, err)
			}
		}
		if len(e.file.Data) != int(e.size) || crc32.ChecksumIEEE(e.file.Data) != e.crc {
			return nil, fmt.Errorf("%w: checksum mismatch in %s", ErrCorrupt, e.file.Name)
		}
		archive.Files = append(archive.Files, e.file)
	}
	return archive, nil
}

func checkSignature(data []byte) error {
	trailer := len(magic) + 4 + sha1.Size
	if len(data) < trailer || string(data[len(data)-len(magic):]) != magic {
		return fmt.Errorf("%w: missing signature", ErrCorrupt)
	}
	flags := binary.LittleEndian.Uint32(data[len(data)-len(magic)-4:])
	if flags != signatureSHA1 {
		return fmt.Errorf("%w: unsupported signature type %#x", ErrCorrupt, flags)
	}

	signed := data[:len(data)-trailer]
	expected := sha1.Sum(signed)
	if !bytes.Equal(expected[:], data[len(signed):len(signed)+sha1.Size]) {
		return fmt.Errorf("%w: signature mismatch", ErrCorrupt)
	}
	return nil
}
