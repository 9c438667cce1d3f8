package vault

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	terrors "github.com/tempokey/tempokey/internal/errors"
)

// formatVersion is written into every container header. Opening a store
// with any other version fails before key derivation.
const formatVersion = 1

// headerFixedLen is the length of the header before the salt bytes.
const headerFixedLen = 8

// encodeHeader serializes a container header: version, salt length, salt.
func encodeHeader(version uint32, salt []byte) []byte {
	buf := make([]byte, headerFixedLen+len(salt))
	binary.LittleEndian.PutUint32(buf[0:4], version)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(salt)))
	copy(buf[headerFixedLen:], salt)
	return buf
}

// parseHeader splits a header into version and salt. The header must be
// exactly as long as its salt length declares.
func parseHeader(b []byte) (uint32, []byte, error) {
	if len(b) < headerFixedLen {
		return 0, nil, fmt.Errorf("%w: header too short", terrors.ErrStoreCorrupted)
	}
	version := binary.LittleEndian.Uint32(b[0:4])
	saltLen := binary.LittleEndian.Uint32(b[4:8])
	if uint64(len(b)) != headerFixedLen+uint64(saltLen) {
		return 0, nil, fmt.Errorf("%w: header salt length mismatch", terrors.ErrStoreCorrupted)
	}
	return version, b[headerFixedLen:], nil
}

// readContainer reads the store file and splits it into raw header bytes
// and the encrypted payload.
func readContainer(path string) ([]byte, []byte, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", terrors.ErrStoreNotFound, path)
		}
		return nil, nil, fmt.Errorf("failed to read store at %s: %w", path, err)
	}

	if len(contents) < 4 {
		return nil, nil, fmt.Errorf("%w: %s", terrors.ErrStoreTruncated, path)
	}
	headerLen := binary.LittleEndian.Uint32(contents[0:4])
	if uint64(len(contents)) < 4+uint64(headerLen) {
		return nil, nil, fmt.Errorf("%w: %s", terrors.ErrStoreTruncated, path)
	}

	return contents[4 : 4+headerLen], contents[4+headerLen:], nil
}

// writeContainer writes the framed container to path atomically: temp
// file in the same directory, fsync, rename. A crash at any point leaves
// either the old file or the new file, never a mix.
func writeContainer(path string, header, encrypted []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tempokey-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(header)))

	for _, chunk := range [][]byte{prefix[:], header, encrypted} {
		if _, err := tmp.Write(chunk); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("failed to write store: %w", err)
		}
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store at %s: %w", path, err)
	}
	return nil
}
