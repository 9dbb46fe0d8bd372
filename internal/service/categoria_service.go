package service

import (
	"context"
	"errors"
	"fmt"

	"almapos/internal/dto"
	"almapos/internal/model"
	"almapos/internal/repository"

	"github.com/google/uuid"
)

type CategoriaService interface {
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	Crear(ctx context.Context, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	categorias, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoriaResponse, len(categorias))
	for i, c := range categorias {
		resp[i] = dto.CategoriaResponse{ID: c.ID.String(), Nombre: c.Nombre, Descripcion: c.Descripcion}
	}
	return resp, nil
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	categoria := &model.Categoria{Nombre: req.Nombre, Descripcion: req.Descripcion, Activo: true}
	if err := s.repo.Create(ctx, categoria); err != nil {
		return nil, err
	}
	return &dto.CategoriaResponse{ID: categoria.ID.String(), Nombre: categoria.Nombre, Descripcion: categoria.Descripcion}, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	categoria, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("categoría no encontrada")
	}
	categoria.Nombre = req.Nombre
	categoria.Descripcion = req.Descripcion
	if err := s.repo.Update(ctx, categoria); err != nil {
		return nil, err
	}
	return &dto.CategoriaResponse{ID: categoria.ID.String(), Nombre: categoria.Nombre, Descripcion: categoria.Descripcion}, nil
}

func (s *categoriaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.CountProductos(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("la categoría tiene %d productos asignados", n)
	}
	return s.repo.Delete(ctx, id)
}
