package interp

import (
	"style-engine/internal/ast"
)

// scopeID is a handle into the arena. Frames refer to their parent by handle, so the
// chain never forms pointer cycles and a whole compile's scopes are dropped at once.
type scopeID int

const noScope scopeID = -1

type function struct {
	decl  *ast.FunctionStatement
	scope scopeID
}

type mixin struct {
	decl  *ast.MixinStatement
	scope scopeID
}

type frame struct {
	parent     scopeID
	vars       map[string]any
	functions  map[string]*function
	mixins     map[string]*mixin
	namespaces map[string]scopeID
	// pinned frames are referenced by a function, mixin or namespace and must outlive
	// the statement that created them.
	pinned bool
}

type arena struct {
	frames []frame
}

func (a *arena) reset() { a.frames = a.frames[:0] }

func (a *arena) push(parent scopeID) scopeID {
	a.frames = append(a.frames, frame{parent: parent})
	return scopeID(len(a.frames) - 1)
}

// pop releases s when it is the newest frame and nothing captured it.
func (a *arena) pop(s scopeID) {
	if int(s) == len(a.frames)-1 && !a.frames[s].pinned {
		a.frames = a.frames[:s]
	}
}

func (a *arena) parent(s scopeID) scopeID { return a.frames[s].parent }

// pin keeps s and every ancestor alive.
func (a *arena) pin(s scopeID) {
	for ; s != noScope && !a.frames[s].pinned; s = a.frames[s].parent {
		a.frames[s].pinned = true
	}
}

func (a *arena) lookupVar(s scopeID, name string) (any, bool) {
	for ; s != noScope; s = a.frames[s].parent {
		if v, ok := a.frames[s].vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// declare binds name in s itself.
func (a *arena) declare(s scopeID, name string, v any) {
	f := &a.frames[s]
	if f.vars == nil {
		f.vars = map[string]any{}
	}
	f.vars[name] = v
}

// assign rebinds name in the nearest scope that declares it, or declares it in s.
func (a *arena) assign(s scopeID, name string, v any) {
	for t := s; t != noScope; t = a.frames[t].parent {
		if _, ok := a.frames[t].vars[name]; ok {
			a.frames[t].vars[name] = v
			return
		}
	}
	a.declare(s, name, v)
}

func (a *arena) lookupFunction(s scopeID, name string) (*function, bool) {
	for ; s != noScope; s = a.frames[s].parent {
		if f, ok := a.frames[s].functions[name]; ok {
			return f, true
		}
	}
	return nil, false
}

func (a *arena) defineFunction(s scopeID, decl *ast.FunctionStatement) {
	f := &a.frames[s]
	if f.functions == nil {
		f.functions = map[string]*function{}
	}
	f.functions[decl.Name] = &function{decl: decl, scope: s}
	a.pin(s)
}

func (a *arena) lookupMixin(s scopeID, name string) (*mixin, bool) {
	for ; s != noScope; s = a.frames[s].parent {
		if m, ok := a.frames[s].mixins[name]; ok {
			return m, true
		}
	}
	return nil, false
}

func (a *arena) defineMixin(s scopeID, decl *ast.MixinStatement) {
	f := &a.frames[s]
	if f.mixins == nil {
		f.mixins = map[string]*mixin{}
	}
	f.mixins[decl.Name] = &mixin{decl: decl, scope: s}
	a.pin(s)
}

func (a *arena) lookupNamespace(s scopeID, name string) (scopeID, bool) {
	for ; s != noScope; s = a.frames[s].parent {
		if ns, ok := a.frames[s].namespaces[name]; ok {
			return ns, true
		}
	}
	return noScope, false
}

func (a *arena) defineNamespace(s scopeID, name string, ns scopeID) {
	f := &a.frames[s]
	if f.namespaces == nil {
		f.namespaces = map[string]scopeID{}
	}
	f.namespaces[name] = ns
	a.pin(ns)
}

// own returns the members declared directly in s, used for namespace access.
func (a *arena) own(s scopeID) *frame { return &a.frames[s] }
