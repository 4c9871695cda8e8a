package vfs

// Directory is one node in the virtual tree; mounted files live under
// it by name. Grounded on the teacher's index-based vfs/main.go +
// directory.go generation (atomic ID counter, per-directory Index),
// the one coherent generation among the several the retrieved tree
// held (see DESIGN.md).
type Directory struct {
	identifier uint64
	name       string

	parent *Directory
	index  *Index

	fileSystem *FileSystem
}

func (directory *Directory) GetIdentifier() uint64 { return directory.identifier }
func (directory *Directory) GetName() string       { return directory.name }
func (directory *Directory) GetParent() *Directory { return directory.parent }

func (directory *Directory) FindDirectory(name string) *Directory {
	return directory.index.findDirectory(name)
}

func (directory *Directory) ListDirectories() []*Directory {
	return directory.index.listDirectories()
}

func (directory *Directory) FindFile(name string) *File {
	return directory.index.findFile(name)
}

func (directory *Directory) ListFiles() []*File {
	return directory.index.listFiles()
}
