package infrastructure

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/pkg/errors"

	"github.com/Victor-armando18/service-pricing/internal/domain"
)

// ApplyCartPatch recebe o carrinho original e os deltas (RFC 6902), retornando o carrinho atualizado.
func ApplyCartPatch(original domain.CartSnapshot, patchData []byte) (domain.CartSnapshot, error) {
	// 1. Converter a struct original para JSON
	originalJSON, err := json.Marshal(original)
	if err != nil {
		return original, err
	}

	// 2. Aplicar o patch
	patch, err := jsonpatch.DecodePatch(patchData)
	if err != nil {
		return original, errors.Wrap(err, "falha ao decodificar patch")
	}

	modifiedJSON, err := patch.Apply(originalJSON)
	if err != nil {
		return original, errors.Wrap(err, "falha ao aplicar patch")
	}

	// 3. Converter de volta para o snapshot
	var updated domain.CartSnapshot
	if err := json.Unmarshal(modifiedJSON, &updated); err != nil {
		return original, errors.Wrap(err, "patched cart is not a valid cart")
	}
	return updated, nil
}
