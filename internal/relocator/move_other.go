//go:build !linux

package relocator

func move(src, dst string) error {
	return linkMove(src, dst)
}
