// Package store appends readings to a CSV log file, one line per changed
// reading:
//
//	<ISO-8601 timestamp>,<temperature °C>,<humidity %>
//
// The file has no header so it can be concatenated and tailed freely.
package store

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/luki/envmon/internal/format"
	"github.com/luki/envmon/internal/sensor"
)

// TimeLayout is local time with microseconds and no zone.
const TimeLayout = "2006-01-02T15:04:05.000000"

// LogFile is an append-only reading log.
type LogFile struct {
	path   string
	file   *os.File
	writer *csv.Writer
}

// Record is a single row read back from a log file.
type Record struct {
	Time         time.Time
	TemperatureC float64
	HumidityPct  float64
}

// Open opens path for appending, creating it if needed.
func Open(path string) (*LogFile, error) {
	if path == "" {
		return nil, errors.New("empty log path")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "open log file")
	}
	return &LogFile{path: path, file: f, writer: csv.NewWriter(f)}, nil
}

// Path returns the file name the log was opened with.
func (l *LogFile) Path() string { return l.path }

// Append writes one reading and flushes it to the OS.
func (l *LogFile) Append(r sensor.Reading) error {
	if l.file == nil {
		return errors.Errorf("log file %s is closed", l.path)
	}
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	l.writer.Write([]string{
		ts.Format(TimeLayout),
		format.Number(r.TemperatureC),
		format.Number(r.HumidityPct),
	})
	l.writer.Flush()
	return errors.Wrapf(l.writer.Error(), "append to %s", l.path)
}

// Close flushes and closes the file.
func (l *LogFile) Close() error {
	if l.file == nil {
		return nil
	}
	l.writer.Flush()
	err := l.file.Close()
	l.file = nil
	return err
}

// LoadFile reads every well-formed record of a log file. Malformed lines
// are skipped.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	var records []Record
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02T15:04:05", row[0], time.Local)
		if err != nil {
			continue
		}
		temp, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			continue
		}
		hum, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			continue
		}
		records = append(records, Record{Time: t, TemperatureC: temp, HumidityPct: hum})
	}
	return records, nil
}

// Tail returns at most the last n records of a log file.
func Tail(path string, n int) ([]Record, error) {
	records, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}
