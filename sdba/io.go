package sdba

import (
	"encoding/gob"
	"fmt"
	"os"
)

// SaveTrained snapshots a trained estimator to disk so that training and
// adjustment can run as separate pipeline stages. The concrete type is
// recorded in the stream.
func SaveTrained(fp string, m interface{}) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("sdba.SaveTrained %v", err)
	}
	defer f.Close()
	enc := gob.NewEncoder(f)
	switch t := m.(type) {
	case *EmpiricalQuantileMapping, *DetrendedQuantileMapping, *QuantileDeltaMapping, *Scaling:
		if err := enc.Encode(&m); err != nil {
			return fmt.Errorf("sdba.SaveTrained %v", err)
		}
	default:
		return fmt.Errorf("sdba.SaveTrained: unknown estimator %T", t)
	}
	return nil
}

// LoadTrained reads a snapshotted estimator; the caller type-asserts to the
// estimator it expects.
func LoadTrained(fp string) (interface{}, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var m interface{}
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("sdba.LoadTrained %v", err)
	}
	return m, nil
}

func init() {
	gob.Register(&EmpiricalQuantileMapping{})
	gob.Register(&DetrendedQuantileMapping{})
	gob.Register(&QuantileDeltaMapping{})
	gob.Register(&Scaling{})
}
