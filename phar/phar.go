// Package phar packs a directory into a phar archive, the format PHP uses to
// ship an application as a single file.
package phar

import (
	"bytes"
	"compress/flate"
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fortio.org/safecast"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// ErrStaleArchive is returned when an archive from an earlier build can not
// be removed
var ErrStaleArchive = errors.New("could not remove the existing archive")

const (
	// Version 1.1.1 of the manifest format
	apiVersion uint16 = 0x1110

	flagSignature    uint32 = 0x00010000
	flagCompressedGZ uint32 = 0x00001000
	signatureSHA1    uint32 = 0x0002
	filePermissions  uint32 = 0o644

	haltCompiler = "__HALT_COMPILER();"
	magic        = "GBMB"
)

// BareStub only stops PHP from reading the rest of the archive
const BareStub = "<?php " + haltCompiler

type Options struct {
	// Deflate the contents of every file
	Compress     bool
	SkipMetadata bool
	// Use the bare stub, instead of one printing a banner with the metadata
	SkipStub bool
	// Time recorded for every file, and printed in the banner. Defaults to
	// the time of the build
	Created time.Time
}

// file is a single file to put in the archive
type file struct {
	name      string
	data      []byte
	stored    []byte
	crc       uint32
	timestamp uint32
	flags     uint32
}

// Build packs every file under buildDir into the archive. Any archive left
// over from an earlier build is removed first
func Build(archive, buildDir string, meta Metadata, opts Options) error {
	if err := os.Remove(archive); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w %s: %w", ErrStaleArchive, archive, err)
	}

	if opts.Created.IsZero() {
		opts.Created = time.Now()
	}

	files, err := collect(buildDir, opts)
	if err != nil {
		return err
	}

	stub := BareStub
	if !opts.SkipStub {
		stub = BannerStub(meta, opts.Created)
	}

	var metadata string
	if !opts.SkipMetadata {
		if metadata, err = Serialize(meta); err != nil {
			return fmt.Errorf("serializing metadata: %w", err)
		}
	}

	contents, err := encode(stub, metadata, files)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"archive": archive,
		"files":   len(files),
		"size":    len(contents),
	}).Debug("Writing archive")
	return os.WriteFile(archive, contents, 0o644)
}

// collect reads every file under the directory, sorted by path
func collect(root string, opts Options) ([]*file, error) {
	timestamp, err := safecast.Conv[uint32](opts.Created.Unix())
	if err != nil {
		return nil, fmt.Errorf("build time: %w", err)
	}

	var names []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)

	files := make([]*file, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			return nil, err
		}
		f := &file{
			name:      name,
			data:      data,
			stored:    data,
			crc:       crc32.ChecksumIEEE(data),
			timestamp: timestamp,
			flags:     filePermissions,
		}
		if opts.Compress {
			if f.stored, err = deflate(data); err != nil {
				return nil, fmt.Errorf("compressing %s: %w", name, err)
			}
			f.flags |= flagCompressedGZ
		}
		files = append(files, f)
	}
	return files, nil
}

func deflate(data []byte) ([]byte, error) {
	var out bytes.Buffer
	writer, err := flate.NewWriter(&out, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// appendString appends a string prefixed with its length
func appendString(buf []byte, s string) ([]byte, error) {
	length, err := safecast.Conv[uint32](len(s))
	if err != nil {
		return nil, err
	}
	buf = binary.LittleEndian.AppendUint32(buf, length)
	return append(buf, s...), nil
}

// encode lays out the archive: the stub, the manifest, the contents of every
// file, and finally the signature of everything before it
func encode(stub, metadata string, files []*file) ([]byte, error) {
	var globalFlags = flagSignature
	for _, f := range files {
		if f.flags&flagCompressedGZ != 0 {
			globalFlags |= flagCompressedGZ
		}
	}

	count, err := safecast.Conv[uint32](len(files))
	if err != nil {
		return nil, err
	}
	manifest := binary.LittleEndian.AppendUint32(nil, count)
	manifest = binary.BigEndian.AppendUint16(manifest, apiVersion)
	manifest = binary.LittleEndian.AppendUint32(manifest, globalFlags)
	// No alias
	if manifest, err = appendString(manifest, ""); err != nil {
		return nil, err
	}
	if manifest, err = appendString(manifest, metadata); err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}

	for _, f := range files {
		size, err := safecast.Conv[uint32](len(f.data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		storedSize, err := safecast.Conv[uint32](len(f.stored))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		if manifest, err = appendString(manifest, f.name); err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		manifest = binary.LittleEndian.AppendUint32(manifest, size)
		manifest = binary.LittleEndian.AppendUint32(manifest, f.timestamp)
		manifest = binary.LittleEndian.AppendUint32(manifest, storedSize)
		manifest = binary.LittleEndian.AppendUint32(manifest, f.crc)
		manifest = binary.LittleEndian.AppendUint32(manifest, f.flags)
		// No per-file metadata
		manifest = binary.LittleEndian.AppendUint32(manifest, 0)
	}

	manifestLength, err := safecast.Conv[uint32](len(manifest))
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	out := []byte(stub + " ?>\r\n")
	out = binary.LittleEndian.AppendUint32(out, manifestLength)
	out = append(out, manifest...)
	for _, f := range files {
		out = append(out, f.stored...)
	}

	signature := sha1.Sum(out)
	out = append(out, signature[:]...)
	out = binary.LittleEndian.AppendUint32(out, signatureSHA1)
	return append(out, magic...), nil
}

// phpString quotes a value for use in a double-quoted PHP string
func phpString(value interface{}) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)
	return replacer.Replace(fmt.Sprint(value))
}

// BannerStub is a stub that prints out the archive's metadata when it is run
// directly
func BannerStub(meta Metadata, created time.Time) string {
	name, _ := meta.Get("name")
	version, _ := meta.Get("version")
	return `<?php echo "PocketMine-MP plugin ` + phpString(name) + `_v` + phpString(version) +
		`\nThis file has been generated using pharbuild at ` + created.Format(time.RFC1123Z) +
		`\n----------------\n";` +
		`if(extension_loaded("phar")){$phar = new \Phar(__FILE__);foreach($phar->getMetadata() as $key => $value){echo ucfirst($key).": ".(is_array($value) ? implode(", ", $value):$value)."\n";}} ` +
		haltCompiler
}
