package feeds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/sellsight/stocktally/pkg/errors"
)

// ReadStockFile reads stock records from path. The decoder is chosen by file
// extension: .json uses encoding/json, .yaml and .yml use goccy yaml.
func ReadStockFile(path string) ([]StockRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var records []StockRecord
	if err := decodeFile(data, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadOrderFile reads order records from path. The decoder is chosen by file
// extension the same way as ReadStockFile.
func ReadOrderFile(path string) ([]OrderRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var records []OrderRecord
	if err := decodeFile(data, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UnmarshalStocks decodes stock records from raw bytes. Input that parses as
// JSON is decoded with encoding/json; anything else falls through to YAML.
func UnmarshalStocks(data []byte) ([]StockRecord, error) {
	var records []StockRecord
	if err := decodeBytes(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UnmarshalOrders decodes order records from raw bytes with the same format
// handling as UnmarshalStocks.
func UnmarshalOrders(data []byte) ([]OrderRecord, error) {
	var records []OrderRecord
	if err := decodeBytes(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// decodeFile dispatches on the file extension.
func decodeFile(data []byte, path string, v any) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return errors.WrapParse("json", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return errors.WrapParse("yaml", path, err)
		}
	default:
		return errors.NewValidationError("path", path, fmt.Sprintf("unsupported feed format %q", ext))
	}
	return nil
}

// decodeBytes sniffs JSON by the first significant byte and falls back to
// YAML, which also covers JSON-like flow syntax that encoding/json rejects.
func decodeBytes(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		if err := json.Unmarshal(trimmed, v); err == nil {
			return nil
		}
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return errors.WrapParse("yaml", "", err)
	}
	return nil
}
