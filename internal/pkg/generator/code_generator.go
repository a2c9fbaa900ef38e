package generator

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type CodeGenerator struct{}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{}
}

// GenerateOrderID returns ids like ORD-1a2b3c4d5e6f.
func (g *CodeGenerator) GenerateOrderID() string {
	return fmt.Sprintf("ORD-%s", shortID())
}

func (g *CodeGenerator) GenerateReturnID() string {
	return fmt.Sprintf("RET-%s", shortID())
}

func (g *CodeGenerator) GenerateSessionID() string {
	return uuid.NewString()
}

func (g *CodeGenerator) IsValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
