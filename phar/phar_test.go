package phar

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var created = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testMetadata() Metadata {
	return Metadata{
		{Key: "name", Value: "Counter"},
		{Key: "version", Value: "1.0.0"},
		{Key: "api", Value: []string{"5.0.0"}},
		{Key: "website", Value: nil},
		{Key: "creationDate", Value: int64(1709294400)},
	}
}

func TestSerialize(t *testing.T) {
	serialized, err := Serialize(testMetadata())
	if err != nil {
		t.Fatal(err)
	}
	expected := `a:5:{s:4:"name";s:7:"Counter";s:7:"version";s:5:"1.0.0";s:3:"api";a:1:{i:0;s:5:"5.0.0";}s:7:"website";N;s:12:"creationDate";i:1709294400;}`
	if serialized != expected {
		t.Errorf("Expected: %v, Actual: %v", expected, serialized)
	}

	if serialized, _ := Serialize([]interface{}{true, 3, "é"}); serialized != `a:3:{i:0;b:1;i:1;i:3;i:2;s:2:"é";}` {
		t.Errorf("Unexpected serialization of a list: %v", serialized)
	}
	if _, err := Serialize(3.5); err == nil {
		t.Errorf("Expected floats to be rejected")
	}
}

func writeBuildDir(t *testing.T) string {
	root := t.TempDir()
	files := map[string]string{
		"plugin.yml":                "name: Counter\nversion: 1.0.0\n",
		"src/Acme/Counter.php":      "<?php\nclass Counter{}",
		"resources/config.yml":      "limit: 10\n",
		"resources/empty/blank.txt": "",
	}
	for name, contents := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func buildAndRead(t *testing.T, opts Options) *Archive {
	buildDir := writeBuildDir(t)
	archivePath := filepath.Join(t.TempDir(), "Counter_v1.0.0.phar")
	if err := Build(archivePath, buildDir, testMetadata(), opts); err != nil {
		t.Fatalf("Building archive failed with err: %v", err)
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	archive, err := Read(data)
	if err != nil {
		t.Fatalf("Reading archive failed with err: %v", err)
	}
	return archive
}

func TestRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		archive := buildAndRead(t, Options{Compress: compress, Created: created})

		var names []string
		for _, file := range archive.Files {
			names = append(names, file.Name)
			if file.Compressed != compress {
				t.Errorf("Expected %s to have compression set to %v", file.Name, compress)
			}
			if file.Timestamp != uint32(created.Unix()) {
				t.Errorf("Expected: %v, Actual: %v", created.Unix(), file.Timestamp)
			}
		}
		expected := []string{"plugin.yml", "resources/config.yml", "resources/empty/blank.txt", "src/Acme/Counter.php"}
		if !reflect.DeepEqual(names, expected) {
			t.Errorf("Expected: %v, Actual: %v", expected, names)
		}
		if source := string(archive.Files[3].Data); source != "<?php\nclass Counter{}" {
			t.Errorf("Expected: %v, Actual: %v", "<?php\nclass Counter{}", source)
		}

		expectedMeta, _ := Serialize(testMetadata())
		if archive.Metadata != expectedMeta {
			t.Errorf("Expected: %v, Actual: %v", expectedMeta, archive.Metadata)
		}
		if !strings.Contains(archive.Stub, "PocketMine-MP plugin Counter_v1.0.0") {
			t.Errorf("Expected a banner stub, got %v", archive.Stub)
		}
	}
}

func TestSkipStubAndMetadata(t *testing.T) {
	archive := buildAndRead(t, Options{SkipStub: true, SkipMetadata: true, Created: created})
	if archive.Stub != BareStub {
		t.Errorf("Expected: %v, Actual: %v", BareStub, archive.Stub)
	}
	if archive.Metadata != "" {
		t.Errorf("Expected no metadata, got %v", archive.Metadata)
	}
}

func TestReplacesExistingArchive(t *testing.T) {
	buildDir := writeBuildDir(t)
	archivePath := filepath.Join(t.TempDir(), "out.phar")
	if err := os.WriteFile(archivePath, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Build(archivePath, buildDir, testMetadata(), Options{}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(archivePath)
	if _, err := Read(data); err != nil {
		t.Errorf("Expected the stale archive to be replaced, got %v", err)
	}
}

func TestStaleArchiveIsFatal(t *testing.T) {
	// A directory that is not empty can not be removed
	archivePath := filepath.Join(t.TempDir(), "out.phar")
	if err := os.MkdirAll(filepath.Join(archivePath, "inner"), 0o755); err != nil {
		t.Fatal(err)
	}

	err := Build(archivePath, writeBuildDir(t), testMetadata(), Options{})
	if !errors.Is(err, ErrStaleArchive) {
		t.Errorf("Expected: %v, Actual: %v", ErrStaleArchive, err)
	}
}

func TestReadRejectsTampering(t *testing.T) {
	buildDir := writeBuildDir(t)
	archivePath := filepath.Join(t.TempDir(), "out.phar")
	if err := Build(archivePath, buildDir, testMetadata(), Options{SkipStub: true}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(archivePath)

	tampered := append([]byte(nil), data...)
	tampered[len(BareStub)+10] ^= 0xFF
	if _, err := Read(tampered); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Expected: %v, Actual: %v", ErrCorrupt, err)
	}
	if _, err := Read(data[:len(data)-1]); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Expected: %v, Actual: %v", ErrCorrupt, err)
	}
}

func TestBannerStubEscapes(t *testing.T) {
	stub := BannerStub(Metadata{{Key: "name", Value: `Evil"$x`}, {Key: "version", Value: "1"}}, created)
	if !strings.Contains(stub, `Evil\"\$x_v1`) {
		t.Errorf("Expected the name to be escaped, got %v", stub)
	}
	if !strings.HasSuffix(stub, haltCompiler) {
		t.Errorf("Expected the stub to end the script, got %v", stub)
	}
}
