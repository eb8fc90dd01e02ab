package repository

import (
	"fmt"
	"strings"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/shopfront-pos/internal/domain/repository"
	"github.com/sangkips/shopfront-pos/pkg/fileutil"
)

type goodsRepository struct {
	index    map[string]*entity.Goods
	fallback map[string]*entity.Goods
	count    int
}

// NewGoodsRepository loads the goods master JSON array once.
func NewGoodsRepository(path string) (domainRepo.GoodsRepository, error) {
	var goods []entity.Goods
	if err := fileutil.ReadJSON(path, &goods); err != nil {
		return nil, fmt.Errorf("load goods master: %w", err)
	}
	return NewGoodsRepositoryFromList(goods), nil
}

// NewGoodsRepositoryFromList indexes an in-memory goods list.
func NewGoodsRepositoryFromList(goods []entity.Goods) domainRepo.GoodsRepository {
	r := &goodsRepository{
		index:    make(map[string]*entity.Goods, len(goods)),
		fallback: make(map[string]*entity.Goods, len(goods)),
		count:    len(goods),
	}
	for i := range goods {
		g := &goods[i]
		if g.Code6 != "" {
			r.index[strings.ToLower(g.Code6)] = g
		}
		if g.GoodsID != "" {
			r.fallback[strings.ToLower(g.GoodsID)] = g
		}
	}
	return r
}

func (r *goodsRepository) Lookup(code string) (*entity.Goods, bool) {
	key := strings.ToLower(strings.TrimSpace(code))
	if key == "" {
		return nil, false
	}
	if g, ok := r.index[key]; ok {
		return g, true
	}
	g, ok := r.fallback[key]
	return g, ok
}

func (r *goodsRepository) Count() int {
	return r.count
}
