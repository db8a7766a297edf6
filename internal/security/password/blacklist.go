package password

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Blacklist contiene contraseñas prohibidas (comparación case-insensitive).
// Es inmutable después de cargarse.
type Blacklist struct {
	data map[string]struct{}
}

// LoadBlacklist lee un archivo con una contraseña por línea; '#' comenta.
// path vacío devuelve una lista vacía.
func LoadBlacklist(path string) (*Blacklist, error) {
	bl := &Blacklist{data: map[string]struct{}{}}
	if strings.TrimSpace(path) == "" {
		return bl, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		bl.add(sc.Text())
	}
	return bl, sc.Err()
}

// NewBlacklist arma una lista a partir de palabras sueltas.
func NewBlacklist(words ...string) *Blacklist {
	bl := &Blacklist{data: make(map[string]struct{}, len(words))}
	for _, w := range words {
		bl.add(w)
	}
	return bl
}

func (b *Blacklist) add(s string) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s != "" && !strings.HasPrefix(s, "#") {
		b.data[s] = struct{}{}
	}
}

func (b *Blacklist) Contains(pwd string) bool {
	if b == nil {
		return false
	}
	_, ok := b.data[strings.ToLower(strings.TrimSpace(pwd))]
	return ok
}

func (b *Blacklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}
