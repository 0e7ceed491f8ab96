package ln

import (
	"context"
	"fmt"

	"github.com/ziflex/lecho/v3"
)

func InitGateway(c *Config, logger *lecho.Logger, ctx context.Context) (result GatewayWrapper, err error) {
	switch c.GatewayType {
	case ALBY_CLIENT_TYPE:
		return NewAlbyClient(c)
	case LND_CLIENT_TYPE:
		return InitLNDGateway(c, logger, ctx)
	default:
		return nil, fmt.Errorf("Did not recognize gateway type %s", c.GatewayType)
	}
}
