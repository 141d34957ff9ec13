package config

import (
	"go.uber.org/fx"
)

// Module provides a *Loader bound to the process environment. Commands load the
// configuration lazily since the file location comes from their flags.
var Module = fx.Module("config", fx.Provide(
	NewLoader,
	func(l *Loader) Env { return l.Env },
))
