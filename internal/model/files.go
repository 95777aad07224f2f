package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// FileList хранит список ссылок на файлы задачи. В БД список сериализуется
// в одну текстовую колонку (JSON), но на границе API это всегда список.
type FileList []string

// Value implements driver.Valuer.
func (f FileList) Value() (driver.Value, error) {
	if f == nil {
		f = FileList{}
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. A NULL or empty column scans to an empty list.
func (f *FileList) Scan(src interface{}) error {
	if src == nil {
		*f = FileList{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for FileList: %T", src)
	}

	if len(data) == 0 {
		*f = FileList{}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("invalid assigned_files value")
	}
	if list == nil {
		list = []string{}
	}
	*f = list
	return nil
}
