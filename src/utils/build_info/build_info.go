package build_info

// Set during build with -ldflags "-X github.com/assetkid/gallery/src/utils/build_info.Version=..."
var Version = "dev"
