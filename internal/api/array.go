package api

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// readArrayBody reads the request body and parses it as a JSON array.
func readArrayBody(c *gin.Context) (gjson.Result, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "Failed to read body"})
		return gjson.Result{}, false
	}
	if !gjson.ValidBytes(body) {
		c.JSON(400, gin.H{"error": "Body must be valid JSON"})
		return gjson.Result{}, false
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		c.JSON(400, gin.H{"error": "Body must be a JSON array"})
		return gjson.Result{}, false
	}
	return parsed, true
}

// ArrayUnique removes duplicate elements, keeping first occurrences.
// Elements compare by their rendered JSON.
func (h *Handlers) ArrayUnique(c *gin.Context) {
	arr, ok := readArrayBody(c)
	if !ok {
		return
	}

	out := "[]"
	seen := map[string]bool{}
	count := 0
	for _, el := range arr.Array() {
		if seen[el.Raw] {
			continue
		}
		seen[el.Raw] = true
		out, _ = sjson.SetRaw(out, "-1", el.Raw)
		count++
	}

	c.JSON(200, gin.H{
		"items": json.RawMessage(out),
		"count": count,
	})
}

// ArrayChunk splits the array into slices of at most size elements.
func (h *Handlers) ArrayChunk(c *gin.Context) {
	size, err := strconv.Atoi(c.DefaultQuery("size", "1"))
	if err != nil || size < 1 {
		c.JSON(400, gin.H{"error": "size must be a positive integer"})
		return
	}

	arr, ok := readArrayBody(c)
	if !ok {
		return
	}

	out := "[]"
	chunk := "[]"
	n := 0
	chunks := 0
	for _, el := range arr.Array() {
		chunk, _ = sjson.SetRaw(chunk, "-1", el.Raw)
		n++
		if n == size {
			out, _ = sjson.SetRaw(out, "-1", chunk)
			chunks++
			chunk = "[]"
			n = 0
		}
	}
	if n > 0 {
		out, _ = sjson.SetRaw(out, "-1", chunk)
		chunks++
	}

	c.JSON(200, gin.H{
		"items": json.RawMessage(out),
		"count": chunks,
	})
}

// ArrayPick extracts a gjson path from every element, dropping elements
// where the path does not resolve.
func (h *Handlers) ArrayPick(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(400, gin.H{"error": "path query parameter is required"})
		return
	}

	arr, ok := readArrayBody(c)
	if !ok {
		return
	}

	out := "[]"
	count := 0
	for _, el := range arr.Array() {
		v := gjson.Get(el.Raw, path)
		if !v.Exists() {
			continue
		}
		out, _ = sjson.SetRaw(out, "-1", v.Raw)
		count++
	}

	c.JSON(200, gin.H{
		"items": json.RawMessage(out),
		"count": count,
	})
}
