package vectorutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/vector"
	"github.com/veridocai/veridoc/pkg/vector/chroma"
	"github.com/veridocai/veridoc/pkg/vector/qdrant"
	"github.com/veridocai/veridoc/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType string
	TargetURL    string

	// Host/Port are for gRPC providers (qdrant).
	Host string
	Port int

	APIKey     string
	Collection string
	DBPath     string
	Dimensions uint
	Logger     *zap.Logger
}

func NewVectorDriver(o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL:            o.TargetURL,
			CollectionName: o.Collection,
		}, o.Logger)
	case "qdrant":
		return qdrant.NewDriver(qdrant.Config{
			Host:           o.Host,
			Port:           o.Port,
			APIKey:         o.APIKey,
			CollectionName: o.Collection,
			Dimensions:     uint64(o.Dimensions),
		}, o.Logger)
	case "sqlitevec":
		return sqlitevec.NewDriver(sqlitevec.Config{
			DBPath:     o.DBPath,
			Dimensions: o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
