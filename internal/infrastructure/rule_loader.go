package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/Victor-armando18/service-pricing/internal/domain"
	yamlloader "github.com/Victor-armando18/service-pricing/internal/infrastructure/yaml"
	"github.com/Victor-armando18/service-pricing/internal/interfaces"
)

// FileRuleLoader lê "<versão>_rules.json" (ou .yaml/.yml) de um diretório.
type FileRuleLoader struct {
	dir string
}

func NewFileRuleLoader(dir string) interfaces.RulePackLoader {
	if dir == "" {
		dir = filepath.Join("pkg", "rules")
	}
	return &FileRuleLoader{dir: dir}
}

// NormalizeVersion garante o prefixo "v" ("1" -> "v1").
func NormalizeVersion(version string) string {
	if version != "" && !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

func (l *FileRuleLoader) Load(ctx context.Context, version string) (*domain.RulePackDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	version = NormalizeVersion(version)
	base := filepath.Join(l.dir, fmt.Sprintf("%s_rules", version))

	if data, err := os.ReadFile(base + ".json"); err == nil {
		var def domain.RulePackDefinition
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal rule definition %s.json", base)
		}
		return withVersion(def, version), nil
	}

	for _, ext := range []string{".yaml", ".yml"} {
		if _, err := os.Stat(base + ext); err != nil {
			continue
		}
		def, err := yamlloader.LoadRulePack(base + ext)
		if err != nil {
			return nil, err
		}
		return withVersion(def, version), nil
	}

	return nil, errors.Wrapf(domain.ErrRulePackNotFound, "version %s in %s", version, l.dir)
}

func withVersion(def domain.RulePackDefinition, version string) *domain.RulePackDefinition {
	if def.Version == "" {
		def.Version = version
	}
	return &def
}
