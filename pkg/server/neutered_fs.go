// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package server

import (
	"io"
	"net/http"
	"os"
)

// noListingFileSystem hides directories that have no index.html so http.FileServer never renders a listing
type noListingFileSystem struct {
	fs http.FileSystem
}

type neuteredStatFile struct {
	http.File
	readDirCount int
}

func (e neuteredStatFile) Stat() (os.FileInfo, error) {
	s, err := e.File.Stat()
	if err != nil {
		return nil, err
	}
	if !s.IsDir() {
		return s, nil
	}

	for {
		fl, err := e.File.Readdir(e.readDirCount)
		switch err {
		case io.EOF:
			return nil, os.ErrNotExist
		case nil:
			for _, f := range fl {
				if f.Name() == "index.html" {
					return s, nil
				}
			}
		default:
			return nil, err
		}
	}
}

func (nd noListingFileSystem) Open(name string) (http.File, error) {
	f, err := nd.fs.Open(name)
	if err != nil {
		return nil, err
	}
	return neuteredStatFile{f, 2}, nil
}
