package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvget/bv-downloader/internal/model"
)

const sampleManifest = "v:1.00\r\n" +
	"n:/Record/20230115_143022_NF.mp4,s:1000000\r\n" +
	"n:/Record/20230115_143022_NR.mp4,s:1000000\r\n" +
	"\r\n" +
	"n:/Record/20230116_080510_EF.mp4,s:52000\r\n" +
	"n:/Record/20230117_221500_PR.mp4\r\n" +
	"n:/Record/20230118_090000_MF.mp4,s:10,lock\r\n"

func TestParseManifest(t *testing.T) {
	var streamed []string
	entries := ParseManifest(sampleManifest, DefaultRecordPrefix, func(entry *model.RecordingEntry) {
		streamed = append(streamed, entry.FileName)
	})

	require.Len(t, entries, 5)

	expected := []struct {
		fileName string
		recType  model.RecordingType
		position model.CameraPosition
	}{
		{"20230115_143022_NF.mp4", model.RecordingTypeNormal, model.CameraPositionFront},
		{"20230115_143022_NR.mp4", model.RecordingTypeNormal, model.CameraPositionRear},
		{"20230116_080510_EF.mp4", model.RecordingTypeEvent, model.CameraPositionFront},
		{"20230117_221500_PR.mp4", model.RecordingTypeParking, model.CameraPositionRear},
		{"20230118_090000_MF.mp4", model.RecordingTypeManual, model.CameraPositionFront},
	}

	for i, want := range expected {
		entry := entries[i]
		assert.Equal(t, i, entry.Index)
		assert.Equal(t, want.fileName, entry.FileName)
		assert.Equal(t, "n:/Record/"+want.fileName, entry.RawPath)
		assert.Equal(t, want.recType, entry.Type)
		assert.Equal(t, want.position, entry.Position)
		assert.True(t, entry.HasTimestamp(), "entry %d should have a timestamp", i)
	}

	assert.Equal(t, []string{
		"20230115_143022_NF.mp4",
		"20230115_143022_NR.mp4",
		"20230116_080510_EF.mp4",
		"20230117_221500_PR.mp4",
		"20230118_090000_MF.mp4",
	}, streamed)

	assert.Equal(t, map[string]string{"s": "1000000"}, entries[0].Attributes)
	assert.Nil(t, entries[3].Attributes)
	assert.Equal(t, map[string]string{"s": "10", "lock": ""}, entries[4].Attributes)
}

func TestParseManifestDecodesTimestamp(t *testing.T) {
	entries := ParseManifest("n:/Record/20230115_143022_NF.mp4,s:1000000\n", DefaultRecordPrefix, nil)
	require.Len(t, entries, 1)

	entry := entries[0]
	require.NotNil(t, entry.Timestamp)
	ts := *entry.Timestamp
	assert.Equal(t, 2023, ts.Year())
	assert.Equal(t, time.January, ts.Month())
	assert.Equal(t, 15, ts.Day())
	assert.Equal(t, 14, ts.Hour())
	assert.Equal(t, 30, ts.Minute())
	assert.Equal(t, 22, ts.Second())
}

func TestParseManifestUnknownCodes(t *testing.T) {
	entries := ParseManifest("n:/Record/20230115_143022_ZZ.mp4\nn:/Record/bad.mp4\n", DefaultRecordPrefix, nil)
	require.Len(t, entries, 2)

	assert.Equal(t, model.RecordingTypeUnknown, entries[0].Type)
	assert.Equal(t, model.CameraPositionUnknown, entries[0].Position)
	assert.True(t, entries[0].HasTimestamp())

	assert.Equal(t, "bad.mp4", entries[1].FileName)
	assert.False(t, entries[1].HasTimestamp())
}

func TestParseManifestEdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		fileNames []string
	}{
		{"empty body", "", []string{}},
		{"no sentinel", "HTTP 404\r\n", []string{}},
		{"only blank lines", "n\n\n\n", []string{"n"}},
		{"empty path fields are skipped", "n:/Record/a_b_NF.mp4\n,s:1\n\nn:/Record/c_d_ER.mp4", []string{"a_b_NF.mp4", "c_d_ER.mp4"}},
		{"header holding the sentinel", "version\nn:/Record/20230115_143022_NF.mp4", []string{"n", "20230115_143022_NF.mp4"}},
		{"short path", "n:x\n", []string{"n:x"}},
		{"lf line endings", "n:/Record/1.mp4\nn:/Record/2.mp4\n", []string{"1.mp4", "2.mp4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := ParseManifest(tt.body, DefaultRecordPrefix, nil)
			names := make([]string, 0, len(entries))
			for _, entry := range entries {
				names = append(names, entry.FileName)
			}
			assert.Equal(t, tt.fileNames, names)
		})
	}
}

func TestParseManifestShortPathIsUnknown(t *testing.T) {
	entries := ParseManifest("n:x\n", DefaultRecordPrefix, nil)
	require.Len(t, entries, 1)
	assert.Equal(t, model.RecordingTypeUnknown, entries[0].Type)
	assert.Equal(t, model.CameraPositionUnknown, entries[0].Position)
}

func TestParseManifestCustomPrefix(t *testing.T) {
	entries := ParseManifest("n:/Movie/20230115_143022_EF.mp4", "n:/Movie/", nil)
	require.Len(t, entries, 1)
	assert.Equal(t, "20230115_143022_EF.mp4", entries[0].FileName)
	assert.Equal(t, model.RecordingTypeEvent, entries[0].Type)
}

func TestParseManifestPrefixRemoval(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		prefix   string
		fileName string
	}{
		{"leading prefix", "n:/Record/20230115_143022_NF.mp4", DefaultRecordPrefix, "20230115_143022_NF.mp4"},
		{"prefix inside the path", "n:/Record/sub/n:/Record/20230115_143022_NF.mp4", DefaultRecordPrefix, "sub/20230115_143022_NF.mp4"},
		{"surrounding spaces are kept", "n:/Record/20230115_143022_NF.mp4 ,s:1", DefaultRecordPrefix, "20230115_143022_NF.mp4 "},
		{"empty prefix keeps the path", "n:/Record/20230115_143022_NF.mp4", "", "n:/Record/20230115_143022_NF.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := ParseManifest(tt.body, tt.prefix, nil)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.fileName, entries[0].FileName)
		})
	}
}
