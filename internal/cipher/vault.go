package cipher

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DecodeVault читает расшифрованный список записей в JSON.
func DecodeVault(r io.Reader) ([]*Cipher, error) {
	var list []*Cipher
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("ошибка разбора хранилища: %w", err)
	}
	seen := make(map[string]struct{}, len(list))
	out := list[:0]
	for i, c := range list {
		if c == nil {
			continue
		}
		if c.ID == "" {
			return nil, fmt.Errorf("запись #%d без id", i)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("повторяющийся id записи %q", c.ID)
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

// LoadVault читает хранилище из файла.
func LoadVault(path string) ([]*Cipher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия хранилища: %w", err)
	}
	defer f.Close()
	return DecodeVault(f)
}
