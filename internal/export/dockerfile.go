// SPDX-License-Identifier: MPL-2.0

package export

import (
	"fmt"
	"path"
	"strings"

	"github.com/fifthecho/habitat/pkg/ident"
)

// DefaultExposedPort is always declared in the generated Dockerfile: the
// supervisor's HTTP gateway listens on it in every synthesized image.
const DefaultExposedPort = "9631"

// generateDockerfile renders the build descriptor for a synthesized image.
// The field order is fixed: base image, environment, working directory,
// filesystem copy, volumes, exposed ports, entry point, default command.
func generateDockerfile(meta *Metadata, pathLine, bldrRoot string, primary ident.PackageIdent) string {
	var sb strings.Builder

	sb.WriteString("FROM scratch\n")
	fmt.Fprintf(&sb, "ENV %s\n", pathLine)
	sb.WriteString("WORKDIR /\n")
	sb.WriteString("COPY rootfs /\n")
	fmt.Fprintf(&sb, "VOLUME %s %s\n",
		path.Join(bldrRoot, "svc", meta.Name, "data"),
		path.Join(bldrRoot, "svc", meta.Name, "config"))
	fmt.Fprintf(&sb, "EXPOSE %s\n", strings.Join(append([]string{DefaultExposedPort}, meta.Exposes...), " "))
	sb.WriteString("ENTRYPOINT [\"/init.sh\"]\n")
	fmt.Fprintf(&sb, "CMD [\"start\", %q]\n", primary.String())

	return sb.String()
}
