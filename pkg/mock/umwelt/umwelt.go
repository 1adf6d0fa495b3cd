package mock

import (
	"github.com/linecard/samlstack/internal/gitlib"
	"github.com/linecard/samlstack/internal/umwelt"
)

func Here(gitMock gitlib.DotGit) umwelt.Here {
	return umwelt.Here{
		Caller: umwelt.ThisCaller{
			Id:      "user-123",
			Arn:     "arn:aws:iam::123456789012:user/test",
			Account: "123456789012",
			Region:  "us-west-2",
		},
		Git: gitMock,
		Registry: umwelt.ThisRegistry{
			Id:     "123456789013",
			Region: "us-west-2",
		},
		Bus: umwelt.ThisBus{
			Name: "default",
		},
	}
}
