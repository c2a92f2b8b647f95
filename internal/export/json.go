package export

import (
	"encoding/json"
	"os"

	"github.com/ncrclimate/cvi-etl/internal/domain"
)

// WriteJSON writes the full result documents, component details included.
func WriteJSON(path string, results []domain.Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ReadJSON loads a results document written by WriteJSON.
func ReadJSON(path string) ([]domain.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var results []domain.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}
