package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pocketvm-dev/pocketvm/ops"
	"github.com/pocketvm-dev/pocketvm/vm"
)

// Verify checks that every primitive operation the program references is
// present in the registry. An unresolved op is a load failure: the
// program must not start executing only to fault mid-run.
func Verify(p *vm.Program, reg *ops.Registry) error {
	var missing []string
	for _, name := range p.OpNames() {
		if !reg.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: module %q needs %s", ops.ErrNotFound, p.Name, strings.Join(missing, ", "))
	}
	return nil
}

// LoadFile loads a module from a TOML manifest (.toml) or a compiled
// binary (anything else), then verifies its ops against reg.
func LoadFile(path string, reg *ops.Registry) (*vm.Program, error) {
	var prog *vm.Program
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		m, err := LoadManifestFile(path)
		if err != nil {
			return nil, err
		}
		prog, err = m.Assemble()
		if err != nil {
			return nil, err
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		var checksum uint64
		prog, checksum, err = ReadProgram(f)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("path", path).Uint64("checksum", checksum).Msg("loaded binary module")
	}
	if prog.Name == "" {
		prog.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := Verify(prog, reg); err != nil {
		return nil, err
	}
	return prog, nil
}
