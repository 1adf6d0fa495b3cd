package mocks

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/linecard/samlstack/internal/gitlib"

	"github.com/rs/zerolog/log"
)

const MockDockerfile = `FROM public.ecr.aws/docker/library/maven:3-amazoncorretto-21 AS build
COPY . /src
RUN mvn -f /src/pom.xml -q package

FROM public.ecr.aws/amazoncorretto/amazoncorretto:21
COPY --from=public.ecr.aws/awsguides/aws-lambda-adapter:0.8.4 /lambda-adapter /opt/extensions/lambda-adapter
COPY --from=build /src/target/app.jar /app.jar
CMD ["java", "-jar", "/app.jar"]
`

// MockBuildContext lays out a throwaway backend directory with a Dockerfile plus the given files.
func MockBuildContext(files map[string]string) (root string, cleanupHook func()) {
	root, err := os.MkdirTemp("", "samlstack-backend-")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create build context")
	}

	if err := os.WriteFile(filepath.Join(root, "Dockerfile"), []byte(MockDockerfile), 0644); err != nil {
		log.Fatal().Err(err).Msg("failed to write Dockerfile")
	}

	for name, content := range files {
		path := filepath.Join(root, name)

		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			log.Fatal().Err(err).Msg("failed to create source directory")
		}

		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			log.Fatal().Err(err).Msgf("failed to write %s", name)
		}
	}

	cleanupHook = func() {
		os.RemoveAll(root)
	}

	return root, cleanupHook
}

// MockGit fakes repository state for root. The sha is derived from the tree so it changes with content.
func MockGit(org, repo, branch, root string) gitlib.DotGit {
	origin, err := url.Parse("https://github.com/" + org + "/" + repo + ".git")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse origin URL")
	}

	sha, err := shaPath(root)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to determine SHA")
	}

	return gitlib.DotGit{
		Branch: branch,
		Sha:    sha,
		Root:   root,
		Origin: origin,
		Dirty:  false,
	}
}

func shaPath(path string) (string, error) {
	hasher := sha1.New()

	err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}

		if _, err = hasher.Write([]byte(rel)); err != nil {
			return err
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := io.Copy(hasher, f); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
