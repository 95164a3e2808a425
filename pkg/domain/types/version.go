package types

// Version is overwritten at build time via -ldflags "-X github.com/rtxtools/remixer/pkg/domain/types.Version=..."
var Version = "dev"
