package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/signadot/xton-format/go-xton/convert"
	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/format"
	"github.com/signadot/xton-format/go-xton/parse"
	"github.com/signadot/xton-format/go-xton/store"
	"github.com/signadot/xton-format/go-xton/token"
)

const versionHeader = "X-Xton-Version"

var contentTypes = map[format.Format]string{
	format.XTonFormat: "text/plain; charset=utf-8",
	format.JSONFormat: "application/json",
	format.YAMLFormat: "application/yaml",
	format.TOMLFormat: "application/toml",
}

func (s *Server) body(c *gin.Context) ([]byte, bool) {
	d, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return nil, false
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return d, true
}

// errorBody describes err for a client. Decode errors carry their kind
// and 1-based line and column.
func errorBody(err error) gin.H {
	res := gin.H{"error": err.Error()}
	var de *token.DecodeError
	if errors.As(err, &de) {
		decodeErrors.WithLabelValues(de.Kind.String()).Inc()
		res["kind"] = de.Kind.String()
		res["offset"] = de.Offset()
		if de.Pos != nil {
			line, col := de.Pos.LineCol()
			res["line"] = line + 1
			res["col"] = col + 1
		}
	}
	return res
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorBody(err))
}

func (s *Server) decode(c *gin.Context) {
	d, ok := s.body(c)
	if !ok {
		return
	}
	node, err := parse.Parse(d, s.cfg.parseOptions()...)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	out, err := convert.ToJSON(node)
	if err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.Data(http.StatusOK, contentTypes[format.JSONFormat], out)
}

func (s *Server) encode(c *gin.Context) {
	d, ok := s.body(c)
	if !ok {
		return
	}
	node, err := convert.FromJSON(d)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	out, err := encode.String(node, encode.EncodeMaxDepth(s.cfg.MaxDepth))
	if err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.Data(http.StatusOK, contentTypes[format.XTonFormat], []byte(out))
}

func (s *Server) validate(c *gin.Context) {
	d, ok := s.body(c)
	if !ok {
		return
	}
	if _, err := parse.Parse(d, s.cfg.parseOptions()...); err != nil {
		res := errorBody(err)
		res["valid"] = false
		c.JSON(http.StatusOK, res)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func queryFormat(c *gin.Context, name string, def format.Format) (format.Format, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	return format.ParseFormat(v)
}

func (s *Server) convert(c *gin.Context) {
	from, err := queryFormat(c, "from", format.JSONFormat)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	to, err := queryFormat(c, "to", format.XTonFormat)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	d, ok := s.body(c)
	if !ok {
		return
	}
	node, err := convert.Decode(d, from, s.cfg.parseOptions()...)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	buf := bytes.NewBuffer(nil)
	if err := convert.Encode(node, buf, to); err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.Data(http.StatusOK, contentTypes[to], buf.Bytes())
}

func (s *Server) listDocs(c *gin.Context) {
	keys, err := s.store.Keys(c.Request.Context(), c.Query("pattern"))
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

func (s *Server) putDoc(c *gin.Context) {
	from, err := queryFormat(c, "format", format.XTonFormat)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	var ttl time.Duration
	if v := c.Query("ttl"); v != "" {
		if ttl, err = time.ParseDuration(v); err != nil {
			s.fail(c, http.StatusBadRequest, err)
			return
		}
	}
	d, ok := s.body(c)
	if !ok {
		return
	}
	node, err := convert.Decode(d, from, s.cfg.parseOptions()...)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	key := c.Param("key")
	version, err := s.store.Put(c.Request.Context(), key, node, ttl)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, encode.ErrUnrepresentable) {
			status = http.StatusUnprocessableEntity
		}
		s.fail(c, status, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "version": version})
}

func (s *Server) getDoc(c *gin.Context) {
	to, err := queryFormat(c, "format", format.XTonFormat)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	node, version, err := s.store.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.fail(c, status, err)
		return
	}
	buf := bytes.NewBuffer(nil)
	if err := convert.Encode(node, buf, to); err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.Header(versionHeader, strconv.FormatInt(version, 10))
	c.Data(http.StatusOK, contentTypes[to], buf.Bytes())
}

func (s *Server) deleteDoc(c *gin.Context) {
	err := s.store.Delete(c.Request.Context(), c.Param("key"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.fail(c, http.StatusNotFound, err)
	case err != nil:
		s.fail(c, http.StatusInternalServerError, err)
	default:
		c.Status(http.StatusNoContent)
	}
}
