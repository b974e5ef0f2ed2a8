package tag

import (
	"context"

	"foodgram/domain"
	"foodgram/entities"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.Tag, error)
		GetTag(ctx context.Context, id uint) (domain.Tag, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		res = append(res, ToDomain(t))
	}
	return res, nil
}

func (s *tagService) GetTag(ctx context.Context, id uint) (domain.Tag, error) {
	t, err := s.tagRepository.GetTagByID(ctx, id)
	if err != nil {
		return domain.Tag{}, err
	}
	return ToDomain(t), nil
}

func ToDomain(t *entities.Tag) domain.Tag {
	return domain.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug}
}
