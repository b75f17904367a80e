package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	backupdomain "github.com/dlsistemas/comisiones/internal/backup/domain"
)

func (s *Server) ExportBackup(c *gin.Context) {
	doc, filename, err := s.backupSvc.Export(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, doc)
}

func (s *Server) ImportBackup(c *gin.Context) {
	var doc backupdomain.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.backupSvc.Import(c.Request.Context(), &doc); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) WipeData(c *gin.Context) {
	if err := s.backupSvc.Wipe(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
