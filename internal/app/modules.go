package app

import (
	"github.com/specialistvlad/zpdev/internal/registry"
	"github.com/specialistvlad/zpdev/modules/build"
	"github.com/specialistvlad/zpdev/modules/copyplugin"
	"github.com/specialistvlad/zpdev/modules/repositories"
	"github.com/specialistvlad/zpdev/modules/run"
	"github.com/specialistvlad/zpdev/modules/templates"
)

// coreModules is the definitive list of all task modules that are compiled
// into the zpdev binary.
func coreModules() []registry.Module {
	return []registry.Module{
		&repositories.Module{},
		&templates.Module{},
		&build.Module{},
		&copyplugin.Module{},
		&run.Module{},
	}
}
