// Package workflow modela flujos de estado lineales (orden de taller, despacho de sub-pedidos).
// Un flujo solo avanza a la etapa siguiente; la última etapa es terminal.
package workflow

import (
	"fmt"

	"github.com/jhoicas/dealerhub-api/internal/domain"
)

// Flow secuencia ordenada e inmutable de etapas.
type Flow struct {
	name   string
	stages []string
	index  map[string]int
}

// New construye un flujo. Entra en pánico si no hay etapas o hay duplicadas (error de programación).
func New(name string, stages ...string) Flow {
	if len(stages) == 0 {
		panic("workflow: flujo sin etapas")
	}
	idx := make(map[string]int, len(stages))
	for i, s := range stages {
		if _, dup := idx[s]; dup {
			panic("workflow: etapa duplicada " + s)
		}
		idx[s] = i
	}
	cp := make([]string, len(stages))
	copy(cp, stages)
	return Flow{name: name, stages: cp, index: idx}
}

// Name nombre del flujo (para logs).
func (f Flow) Name() string { return f.name }

// Initial primera etapa.
func (f Flow) Initial() string { return f.stages[0] }

// Stages copia de las etapas en orden.
func (f Flow) Stages() []string {
	cp := make([]string, len(f.stages))
	copy(cp, f.stages)
	return cp
}

// Contains informa si s es una etapa del flujo.
func (f Flow) Contains(s string) bool {
	_, ok := f.index[s]
	return ok
}

// Index posición de s en el flujo, -1 si no pertenece.
func (f Flow) Index(s string) int {
	i, ok := f.index[s]
	if !ok {
		return -1
	}
	return i
}

// IsTerminal informa si s es la última etapa.
func (f Flow) IsTerminal(s string) bool {
	return f.Index(s) == len(f.stages)-1
}

// Next devuelve la etapa siguiente a current.
func (f Flow) Next(current string) (string, error) {
	i := f.Index(current)
	if i < 0 {
		return "", fmt.Errorf("%w: %s desconoce la etapa %q", domain.ErrInvalidTransition, f.name, current)
	}
	if i == len(f.stages)-1 {
		return "", domain.ErrTerminalState
	}
	return f.stages[i+1], nil
}

// CanTransition informa si from -> to es un avance válido (exactamente una etapa).
func (f Flow) CanTransition(from, to string) bool {
	next, err := f.Next(from)
	return err == nil && next == to
}

// Reached informa si s ya alcanzó (o superó) la etapa target.
func (f Flow) Reached(s, target string) bool {
	i, t := f.Index(s), f.Index(target)
	return i >= 0 && t >= 0 && i >= t
}
