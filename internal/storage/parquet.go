package storage

import (
	"fmt"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// RunRow is the flat parquet form of a run, one row per run.
type RunRow struct {
	StartedAt      int64   `parquet:"name=started_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	ElapsedSeconds float64 `parquet:"name=elapsed_seconds, type=DOUBLE"`
	Nodes          int64   `parquet:"name=nodes, type=INT64"`
	NodesPerSecond float64 `parquet:"name=nodes_per_second, type=DOUBLE"`
	Passed         bool    `parquet:"name=passed, type=BOOLEAN"`
	Quick          bool    `parquet:"name=quick, type=BOOLEAN"`
	Cases          int32   `parquet:"name=cases, type=INT32"`
}

func rowFromRun(r Run) RunRow {
	return RunRow{
		StartedAt:      r.StartedAt.UnixMilli(),
		ElapsedSeconds: r.ElapsedSeconds,
		Nodes:          int64(r.Nodes),
		NodesPerSecond: r.NodesPerSecond,
		Passed:         r.Passed,
		Quick:          r.Quick,
		Cases:          int32(len(r.Cases)),
	}
}

// ExportParquet writes runs to a snappy-compressed parquet file.
func ExportParquet(path string, runs []Run) error {
	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	defer fileWriter.Close()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(RunRow), 1)
	if err != nil {
		return err
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range runs {
		if err := parquetWriter.Write(rowFromRun(r)); err != nil {
			return fmt.Errorf("write run %s: %w", r.StartedAt.Format(time.RFC3339), err)
		}
	}
	if err := parquetWriter.WriteStop(); err != nil {
		return err
	}
	return fileWriter.Close()
}

// ReadParquet loads rows written by ExportParquet.
func ReadParquet(path string) ([]RunRow, error) {
	fileReader, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(RunRow), 1)
	if err != nil {
		return nil, err
	}
	defer parquetReader.ReadStop()

	rows := make([]RunRow, parquetReader.GetNumRows())
	if len(rows) == 0 {
		return rows, nil
	}
	if err := parquetReader.Read(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}
