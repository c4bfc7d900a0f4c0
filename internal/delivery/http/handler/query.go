package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/map-cluster-service/internal/domain"
	"github.com/map-cluster-service/internal/pkg/errors"
	"github.com/map-cluster-service/internal/pkg/utils"
)

// bboxParams - имена query-параметров bbox (snake_case и camelCase)
var bboxParams = [4][2]string{
	{"min_lat", "minLat"},
	{"min_lon", "minLon"},
	{"max_lat", "maxLat"},
	{"max_lon", "maxLon"},
}

// bboxQuery - сырые значения границ из query
type bboxQuery struct {
	values  [4]*float64
	present int
	invalid int
}

func readBBoxQuery(c *fiber.Ctx) bboxQuery {
	var q bboxQuery
	for i, names := range bboxParams {
		raw := utils.FirstNonEmpty(c.Query(names[0]), c.Query(names[1]))
		if raw == "" {
			continue
		}
		q.present++
		if v := utils.ParseCoordinate(raw); v != nil {
			q.values[i] = v
		} else {
			q.invalid++
		}
	}
	return q
}

// parse разбирает все четыре границы; любая проблема дает nil
func (q bboxQuery) parse() *domain.BoundingBox {
	return domain.ParseBoundingBox(q.values[0], q.values[1], q.values[2], q.values[3])
}

// parseStrict требует все четыре корректные границы
func (q bboxQuery) parseStrict() (*domain.BoundingBox, error) {
	if q.invalid > 0 {
		return nil, errors.ErrInvalidBoundingBox.WithMessage("bounding box coordinates must be numbers")
	}
	box, err := domain.ParseBoundingBoxStrict(q.values[0], q.values[1], q.values[2], q.values[3])
	if err != nil {
		return nil, errors.ErrInvalidBoundingBox.WithMessage(err.Error())
	}
	return box, nil
}

// withWorldDefaults заполняет отсутствующие границы границами мира
func (q bboxQuery) withWorldDefaults() bboxQuery {
	world := [4]float64{
		domain.WorldBoundingBox.MinLat,
		domain.WorldBoundingBox.MinLon,
		domain.WorldBoundingBox.MaxLat,
		domain.WorldBoundingBox.MaxLon,
	}
	for i := range q.values {
		if q.values[i] == nil {
			v := world[i]
			q.values[i] = &v
		}
	}
	return q
}

// parseZoom разбирает zoom. Отсутствующий или нечисловой zoom заменяется значением по умолчанию.
func parseZoom(c *fiber.Ctx) int {
	raw := strings.TrimSpace(c.Query("zoom"))
	if raw == "" {
		return domain.DefaultZoom
	}
	zoom, err := strconv.Atoi(raw)
	if err != nil {
		return domain.DefaultZoom
	}
	return zoom
}
