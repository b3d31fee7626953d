package sim

import (
	"sync"

	"github.com/san-kum/dpdsim/internal/dpd"
)

// VectorPool recycles state-vector buffers of a fixed length across steps.
type VectorPool struct {
	pool sync.Pool
	size int
}

func NewVectorPool(size int) *VectorPool {
	return &VectorPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make(dpd.Vector, size)
			},
		},
	}
}

func (p *VectorPool) Size() int { return p.size }

func (p *VectorPool) Get() dpd.Vector {
	return p.pool.Get().(dpd.Vector)
}

func (p *VectorPool) Put(v dpd.Vector) {
	if len(v) == p.size {
		v.Zero()
		p.pool.Put(v)
	}
}

func (p *VectorPool) GetAndCopy(src dpd.Vector) dpd.Vector {
	dst := p.Get()
	copy(dst, src)
	return dst
}
