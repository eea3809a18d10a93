package series

import (
	"encoding/gob"
	"fmt"
	"os"
)

// SaveGob snapshots the array to disk. Trained adjustment objects and
// intermediate arrays are cached this way between pipeline stages.
func (da *DataArray) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("series.SaveGob %v", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(da); err != nil {
		return fmt.Errorf("series.SaveGob %v", err)
	}
	return nil
}

// LoadGob reads a gob-snapshotted array.
func LoadGob(fp string) (*DataArray, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var da DataArray
	if err := gob.NewDecoder(f).Decode(&da); err != nil {
		return nil, fmt.Errorf("series.LoadGob %v", err)
	}
	return &da, nil
}
