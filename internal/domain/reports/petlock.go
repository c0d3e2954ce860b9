package reports

import "sync"

// petLocks serializa las mutaciones check-then-act por mascota.
// Pets distintos avanzan en paralelo; no hay lock global de escritura.
// El mapa no se poda: el working set son mascotas con actividad de
// reportes, que se espera chico.
type petLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPetLocks() *petLocks {
	return &petLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *petLocks) forPet(petID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.locks[petID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[petID] = l
	}
	return l
}
