package data

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/parquet-go/parquet-go"
)

// WriteSchemas prints the column layout of each discovered table, using the
// first fragment file of each table.
func WriteSchemas(w io.Writer, paths map[string]string) error {
	tables := make([]string, 0, len(paths))
	for table := range paths {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		files, err := Files(paths[table])
		if err != nil {
			return fmt.Errorf("table %s: %w", table, err)
		}

		fmt.Fprintln(w, "==========================================")
		fmt.Fprintf(w, "Table: %s (%s)\n", table, files[0])
		fmt.Fprintln(w, "==========================================")

		if err := writeFileSchema(w, files[0]); err != nil {
			return fmt.Errorf("table %s: %w", table, err)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func writeFileSchema(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return err
	}

	for _, field := range pf.Schema().Fields() {
		fmt.Fprintf(w, "%-20s | %s\n", field.Name(), fieldType(field))
	}
	return nil
}

func fieldType(field parquet.Field) string {
	if field.Leaf() {
		return field.Type().String()
	}
	return "group"
}
