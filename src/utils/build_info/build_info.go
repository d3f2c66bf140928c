package build_info

// Version is set at build time with:
// go build -ldflags="-X 'github.com/votesecure/deployer/src/utils/build_info.Version=x.y.z'"
var Version = "dev"
