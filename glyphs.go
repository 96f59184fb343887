package keypath

// Glyphs3OpaqueKeys hold large or highly variable structures in Glyphs 3
// files: kerning tables, custom parameters, user data and similar.
var Glyphs3OpaqueKeys = []string{
	"kerningLTR",
	"kerningRTL",
	"kerningVertical",
	"userData",
	"instanceInterpolations",
	"customParameters",
	"deltaV",
	"partSelection",
	"piece",
}

// Glyphs3IgnoredKeys churn between saves and say nothing about structure.
var Glyphs3IgnoredKeys = []string{
	".storedFormatVersion",
	"changeCount",
	"bottomName",
	"topName",
}

// Glyphs3 is the rule bundle used when deriving the Glyphs 3 file schema.
var Glyphs3 = Bundle(Opaque(Glyphs3OpaqueKeys...), Ignore(Glyphs3IgnoredKeys...))
