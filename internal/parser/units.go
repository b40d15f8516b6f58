package parser

import (
	"github.com/Angeloac12/siigo-cotizador/internal/domain"
	"github.com/Angeloac12/siigo-cotizador/internal/textfold"
)

// UnitTable maps folded, punctuation-stripped unit tokens to canonical UOM
// codes. Lookups never coerce: a token that is not in the table is not a unit.
type UnitTable map[string]domain.UOM

// DefaultUnits returns the built-in alias table. Procurement requests arrive
// mostly in Spanish, so the aliases cover the abbreviations seen in real
// uploads ("mts", "rollo", "uds").
func DefaultUnits() UnitTable {
	return UnitTable{
		// UND
		"und": domain.UOMUnit, "unds": domain.UOMUnit, "uds": domain.UOMUnit,
		"unidad": domain.UOMUnit, "unidades": domain.UOMUnit,
		"un": domain.UOMUnit, "u": domain.UOMUnit,
		"pza": domain.UOMUnit, "pzas": domain.UOMUnit,
		// M
		"m": domain.UOMMeter, "mt": domain.UOMMeter, "mts": domain.UOMMeter,
		"mtr": domain.UOMMeter, "mtrs": domain.UOMMeter,
		"metro": domain.UOMMeter, "metros": domain.UOMMeter,
		// KG
		"kg": domain.UOMKilo, "kilo": domain.UOMKilo, "kilos": domain.UOMKilo,
		"kilogramo": domain.UOMKilo, "kilogramos": domain.UOMKilo,
		// ROL
		"rol": domain.UOMRoll, "rollo": domain.UOMRoll, "rollos": domain.UOMRoll,
		// EA
		"ea": domain.UOMEach,
		// BOX
		"box": domain.UOMBox, "caja": domain.UOMBox, "cajas": domain.UOMBox,
		// SET
		"set": domain.UOMSet, "juego": domain.UOMSet, "juegos": domain.UOMSet,
		"kit": domain.UOMSet,
		// L
		"l": domain.UOMLiter, "lt": domain.UOMLiter, "lts": domain.UOMLiter,
		"litro": domain.UOMLiter, "litros": domain.UOMLiter,
		// GAL
		"gal": domain.UOMGal, "galon": domain.UOMGal, "galones": domain.UOMGal,
		// PACK
		"pack": domain.UOMPack, "paquete": domain.UOMPack, "paquetes": domain.UOMPack,
		"pkg": domain.UOMPack,
	}
}

// Resolve looks a raw token up in the table, folding case, accents and
// punctuation first. The second return is false when the token is not a
// known unit alias.
func (t UnitTable) Resolve(token string) (domain.UOM, bool) {
	key := textfold.FoldToken(token)
	if key == "" {
		return "", false
	}
	uom, ok := t[key]
	return uom, ok
}
