package ncio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/maseology/mmio"

	"github.com/GlobalManagement/xclim/cal"
	"github.com/GlobalManagement/xclim/series"
)

// WriteCSV dumps an array as a date-by-location table. Standard-calendar
// axes go through the dated CSV writer; model calendars print their own
// date labels.
func WriteCSV(fp string, da *series.DataArray) error {
	if da.Axis.Cal == cal.Standard {
		dts := make([]time.Time, da.NT())
		for j, d := range da.Axis.Dates {
			dts[j] = d.Time()
		}
		cols := make([][]float64, da.Nloc())
		hdr := "date"
		for i := range cols {
			cols[i] = da.Data[i]
			hdr += fmt.Sprintf(",loc%d", i)
		}
		mmio.WriteCsvDateFloats(fp, hdr, dts, cols...)
		return nil
	}
	lns := make([]string, 0, da.NT()+1)
	hdr := "date"
	for i := 0; i < da.Nloc(); i++ {
		hdr += fmt.Sprintf(",loc%d", i)
	}
	lns = append(lns, hdr)
	for j, d := range da.Axis.Dates {
		ln := d.String()
		for i := 0; i < da.Nloc(); i++ {
			ln += fmt.Sprintf(",%v", da.Data[i][j])
		}
		lns = append(lns, ln)
	}
	return mmio.WriteLines(fp, lns)
}

// WriteBins dumps every location's series as a little-endian float32 binary
// file under dir, one file per location, for downstream mapping tools.
func WriteBins(dir string, da *series.DataArray) error {
	mmio.MakeDir(dir)
	for i := 0; i < da.Nloc(); i++ {
		fp := fmt.Sprintf("%s/%s.%d.bin", dir, da.Name, i)
		if err := writeFloats32(fp, da.Data[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeFloats32(fp string, f []float64) error {
	f32 := make([]float32, len(f))
	for i, v := range f {
		f32[i] = float32(v)
	}
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("ncio.writeFloats32 failed: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("ncio.writeFloats32 failed: %v", err)
	}
	return nil
}

// ReadBin loads a float32 binary dump back into float64s.
func ReadBin(fp string) ([]float64, error) {
	b, err := os.ReadFile(fp)
	if err != nil {
		return nil, err
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("ncio.ReadBin: %s is not a float32 dump", fp)
	}
	f32 := make([]float32, len(b)/4)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, f32); err != nil {
		return nil, fmt.Errorf("ncio.ReadBin failed: %v", err)
	}
	f := make([]float64, len(f32))
	for i, v := range f32 {
		f[i] = float64(v)
	}
	return f, nil
}
