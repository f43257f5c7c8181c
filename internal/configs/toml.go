package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SaveTOML writes data to filePath as TOML. The file is created with 0600
// because key stores reuse this helper.
func SaveTOML(filePath string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return err
	}

	tmp := filePath + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if err := toml.NewEncoder(file).Encode(data); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("encoding %s: %w", filepath.Base(filePath), err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, filePath)
}

// LoadTOML loads a TOML file into a struct. Keys in the file that data has
// no field for are reported as an error.
func LoadTOML(filePath string, data interface{}) error {
	md, err := toml.DecodeFile(filePath, data)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q in %s", undecoded[0].String(), filepath.Base(filePath))
	}
	return nil
}
