package contentcmd

import "testing"

func TestImportDirectoryCommandType(t *testing.T) {
	if got := (ImportDirectoryCommand{}).Type(); got != "blog.content.import_directory" {
		t.Fatalf("unexpected message type: %s", got)
	}
}

func TestImportDirectoryCommandValidate(t *testing.T) {
	cases := []struct {
		name      string
		directory string
		wantError bool
	}{
		{name: "valid", directory: "content"},
		{name: "missing", directory: "", wantError: true},
		{name: "whitespace", directory: "   ", wantError: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ImportDirectoryCommand{Directory: tc.directory}.Validate()
			if tc.wantError && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantError && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestExportPostCommandType(t *testing.T) {
	if got := (ExportPostCommand{}).Type(); got != "blog.content.export_post" {
		t.Fatalf("unexpected message type: %s", got)
	}
}

func TestExportPostCommandValidate(t *testing.T) {
	cases := []struct {
		name      string
		cmd       ExportPostCommand
		wantError bool
	}{
		{name: "zero value", cmd: ExportPostCommand{}},
		{name: "pdf", cmd: ExportPostCommand{Format: "pdf"}},
		{name: "markdown alias", cmd: ExportPostCommand{Format: "md"}},
		{name: "json with slugs", cmd: ExportPostCommand{Format: "json", Slugs: []string{"a-post"}}},
		{name: "unknown format", cmd: ExportPostCommand{Format: "docx"}, wantError: true},
		{name: "blank slug", cmd: ExportPostCommand{Slugs: []string{" "}}, wantError: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.wantError && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantError && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
