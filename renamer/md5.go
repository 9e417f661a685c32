package renamer

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

const md5PrefixLength = 8

// MD5 renames identifiers to a prefix of the hash of their name, so the same
// name always gets the same pseudonym. The prefix grows when two names share
// it
type MD5 struct {
	mapping
}

func NewMD5() *MD5 {
	renamer := &MD5{}
	renamer.Init()
	return renamer
}

func (r *MD5) Generate(name string) {
	sum := md5.Sum([]byte(name))
	digest := hex.EncodeToString(sum[:])

	r.generate(name, func(attempt int) string {
		if length := md5PrefixLength + attempt; length <= len(digest) {
			return "_" + digest[:length]
		}
		return "_" + digest + "_" + strconv.Itoa(attempt-len(digest)+md5PrefixLength)
	})
}
