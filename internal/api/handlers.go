package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/annel0/nbtview/internal/nbt"
	"github.com/annel0/nbtview/internal/observability"
	"github.com/annel0/nbtview/internal/storage"
	"github.com/annel0/nbtview/internal/world"
	"github.com/annel0/nbtview/internal/world/block"
)

// Ограничения выдачи элементов массива
const (
	DefaultBytesLimit = 256
	MaxBytesLimit     = 4096
)

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BlockResponse блок в мировых координатах
type BlockResponse struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Z       int    `json:"z"`
	BlockID int    `json:"block_id"`
	Name    string `json:"name"`
	ChunkX  int    `json:"chunk_x"`
	ChunkZ  int    `json:"chunk_z"`
	LocalX  int    `json:"local_x"`
	LocalZ  int    `json:"local_z"`
}

// ArrayItem строка табличного представления массива
type ArrayItem struct {
	Index interface{} `json:"index"`
	Value interface{} `json:"value"`
}

// ArrayResponse срез элементов массива тега
type ArrayResponse struct {
	Field  string      `json:"field"`
	Kind   string      `json:"kind"`
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Items  []ArrayItem `json:"items"`
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, GenericResponse{Success: false, Message: msg})
}

// handleHealth проверка состояния сервера
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handleStats отдаёт статистику процесса, кеша и шины событий
func (s *Server) handleStats(c *gin.Context) {
	regions := s.cfg.Regions
	if regions == nil {
		regions = []string{}
	}

	data := gin.H{
		"uptime":  s.metrics.GetUptime(),
		"memory":  s.metrics.GetMemoryStats(),
		"regions": regions,
	}
	if cpu, err := s.metrics.GetCPUUsage(); err == nil {
		data["cpu_percent"] = cpu
	}
	if s.cfg.Cache != nil {
		data["cache"] = s.cfg.Cache.GetMetrics()
	}
	if s.cfg.Bus != nil {
		data["eventbus"] = s.cfg.Bus.Metrics()
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "ok", Data: data})
}

// handleBlockTypes отдаёт регистр типов блоков
func (s *Server) handleBlockTypes(c *gin.Context) {
	c.JSON(http.StatusOK, block.All())
}

// handleBlock: GET /api/v1/regions/:region/blocks?x=&y=&z=
func (s *Server) handleBlock(c *gin.Context) {
	var coords [3]int
	for i, name := range []string{"x", "y", "z"} {
		v, err := strconv.Atoi(c.Query(name))
		if err != nil {
			fail(c, http.StatusBadRequest, "неверная координата "+name)
			return
		}
		coords[i] = v
	}
	x, y, z := coords[0], coords[1], coords[2]

	w := s.view(c.Param("region")).world
	b, ok := w.Block(x, y, z)
	if !ok {
		fail(c, http.StatusNotFound, "блок не найден")
		return
	}

	chunk := w.ChunkCoords(x, z)
	local := w.LocalCoords(x, z)
	c.JSON(http.StatusOK, BlockResponse{
		X: x, Y: y, Z: z,
		BlockID: b.BlockID(),
		Name:    block.ID(b.BlockID()).Name(),
		ChunkX:  chunk.X,
		ChunkZ:  chunk.Z,
		LocalX:  local.X,
		LocalZ:  local.Z,
	})
}

// handleChunkList: GET /api/v1/regions/:region/chunks
func (s *Server) handleChunkList(c *gin.Context) {
	keys, err := s.cfg.Store.List(c.Request.Context(), c.Param("region"))
	if err != nil {
		s.logger.Error("list %s: %v", c.Param("region"), err)
		fail(c, http.StatusInternalServerError, "ошибка хранилища")
		return
	}
	chunks := make([][2]int, 0, len(keys))
	for _, k := range keys {
		chunks = append(chunks, [2]int{k.X, k.Z})
	}
	c.JSON(http.StatusOK, gin.H{"region": c.Param("region"), "chunks": chunks})
}

// loadChunk разбирает :cx/:cz и загружает чанк; при ошибке ответ уже записан
func (s *Server) loadChunk(c *gin.Context) (*world.TagChunk, bool) {
	cx, errX := strconv.Atoi(c.Param("cx"))
	cz, errZ := strconv.Atoi(c.Param("cz"))
	if errX != nil || errZ != nil {
		fail(c, http.StatusBadRequest, "неверные координаты чанка")
		return nil, false
	}

	region := c.Param("region")
	_, span := observability.StartChunkSpan(c.Request.Context(), "chunk.load", region, cx, cz)
	defer span.End()

	chunk, err := s.view(region).region.TagChunk(cx, cz)
	switch {
	case errors.Is(err, storage.ErrChunkNotFound):
		fail(c, http.StatusNotFound, "чанк не найден")
		return nil, false
	case err != nil:
		span.RecordError(err)
		s.logger.Warn("chunk %s:%d:%d: %v", region, cx, cz, err)
		fail(c, http.StatusInternalServerError, "не удалось прочитать чанк")
		return nil, false
	}
	return chunk, true
}

// handleChunk отдаёт текстовое представление дерева тегов чанка
func (s *Server) handleChunk(c *gin.Context) {
	chunk, ok := s.loadChunk(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(chunk.Root().String()))
}

// handleChunkBytes отдаёт элементы массива :field постранично
func (s *Server) handleChunkBytes(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		fail(c, http.StatusBadRequest, "неверный offset")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultBytesLimit)))
	if err != nil || limit <= 0 {
		fail(c, http.StatusBadRequest, "неверный limit")
		return
	}
	limit = min(limit, MaxBytesLimit)

	chunk, ok := s.loadChunk(c)
	if !ok {
		return
	}

	field := c.Param("field")
	tag, found := chunk.Root().Find("Level", field)
	if !found {
		tag, found = chunk.Root().Find(field)
	}
	if !found {
		fail(c, http.StatusNotFound, "поле не найдено")
		return
	}
	switch tag.Kind() {
	case nbt.KindByteArray, nbt.KindIntArray, nbt.KindLongArray:
	default:
		fail(c, http.StatusBadRequest, field+" не массив: "+tag.Kind().String())
		return
	}
	branch, _ := nbt.AsBranch(tag)

	total := branch.ChildCount()
	if offset > total {
		fail(c, http.StatusBadRequest, "offset за пределами массива")
		return
	}
	end := min(offset+limit, total)

	items := make([]ArrayItem, 0, end-offset)
	for i := offset; i < end; i++ {
		node := branch.Child(i)
		items = append(items, ArrayItem{
			Index: node.ValueAt(nbt.ColumnKey),
			Value: node.ValueAt(nbt.ColumnValue),
		})
	}
	c.JSON(http.StatusOK, ArrayResponse{
		Field:  field,
		Kind:   tag.Kind().String(),
		Total:  total,
		Offset: offset,
		Items:  items,
	})
}
