// Copyright Fernando Simich, 2026. All rights reserved.

package reader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsimich/mppexport/pkg/types"
)

const fixtureMSPDI = `<?xml version="1.0" encoding="UTF-8"?>
<Project xmlns="http://schemas.microsoft.com/project">
  <Title>Planta FCC</Title>
  <Manager>F. Simich</Manager>
  <StartDate>2025-01-06T08:00:00</StartDate>
  <FinishDate>2025-03-28T17:00:00</FinishDate>
  <Tasks>
    <Task>
      <UID>1</UID><ID>1</ID>
      <Name>Obra civil</Name>
      <OutlineLevel>1</OutlineLevel>
      <Duration>PT320H0M0S</Duration>
      <DurationFormat>7</DurationFormat>
      <Start>2025-01-06T08:00:00</Start>
      <Finish>2025-02-14T17:00:00</Finish>
      <PercentComplete>50</PercentComplete>
      <Cost>1250000</Cost>
      <Summary>1</Summary>
      <Critical>1</Critical>
    </Task>
    <Task>
      <UID>2</UID><ID>2</ID>
      <Name>Excavación</Name>
      <OutlineLevel>2</OutlineLevel>
      <Duration>PT80H0M0S</Duration>
      <DurationFormat>7</DurationFormat>
      <Start>2025-01-06T08:00:00</Start>
      <Finish>2025-01-17T17:00:00</Finish>
      <PercentComplete>100</PercentComplete>
      <Work>PT120H0M0S</Work>
      <Cost>500000</Cost>
    </Task>
    <Task>
      <UID>3</UID><ID>3</ID>
      <Name>Hormigonado</Name>
      <OutlineLevel>2</OutlineLevel>
      <Duration>PT10H30M0S</Duration>
      <DurationFormat>6</DurationFormat>
      <Start>2025-01-20T08:00:00</Start>
      <Finish>2025-01-31T17:00:00</Finish>
      <PercentComplete>25</PercentComplete>
      <PredecessorLink>
        <PredecessorUID>2</PredecessorUID>
        <Type>1</Type>
        <LinkLag>9600</LinkLag>
        <LagFormat>7</LagFormat>
      </PredecessorLink>
    </Task>
    <Task>
      <UID>4</UID><ID>4</ID>
      <Name>Entrega</Name>
      <OutlineLevel>1</OutlineLevel>
      <Duration>PT0H0M0S</Duration>
      <DurationFormat>7</DurationFormat>
      <Start>2025-03-28T17:00:00</Start>
      <Finish>2025-03-28T17:00:00</Finish>
      <Milestone>1</Milestone>
      <PredecessorLink>
        <PredecessorUID>3</PredecessorUID>
        <Type>3</Type>
      </PredecessorLink>
    </Task>
  </Tasks>
  <Resources>
    <Resource>
      <UID>1</UID><ID>1</ID>
      <Name>Cuadrilla A</Name>
      <Type>1</Type>
      <Cost>750000</Cost>
      <StandardRate>45.5</StandardRate>
      <MaxUnits>2.0</MaxUnits>
    </Resource>
    <Resource>
      <UID>2</UID><ID>2</ID>
      <Name>Grúa</Name>
      <Type>0</Type>
      <Cost>250000</Cost>
      <StandardRate>0</StandardRate>
      <MaxUnits>1.0</MaxUnits>
    </Resource>
  </Resources>
  <Assignments>
    <Assignment><TaskUID>2</TaskUID><ResourceUID>1</ResourceUID></Assignment>
    <Assignment><TaskUID>2</TaskUID><ResourceUID>2</ResourceUID></Assignment>
    <Assignment><TaskUID>3</TaskUID><ResourceUID>1</ResourceUID></Assignment>
  </Assignments>
</Project>
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMSPDIReadProject(t *testing.T) {
	path := writeFixture(t, "plan.xml", fixtureMSPDI)

	project, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, "Planta FCC", project.Title)
	assert.Equal(t, "F. Simich", project.Manager)
	assert.Equal(t, time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC), project.Start)

	require.Len(t, project.Tasks, 4)
	require.Len(t, project.Resources, 2)
}

func TestMSPDITaskMapping(t *testing.T) {
	path := writeFixture(t, "plan.xml", fixtureMSPDI)
	project, err := Read(path)
	require.NoError(t, err)

	civil := project.Tasks[0]
	assert.Equal(t, 1, civil.ID)
	assert.Equal(t, "Obra civil", civil.Name)
	assert.Equal(t, 1, civil.OutlineLevel)
	// 320 hours at format "days" displays as 40d.
	assert.Equal(t, types.Duration{Value: 40, Unit: "d"}, civil.Duration)
	assert.True(t, civil.Summary)
	assert.True(t, civil.Critical)
	assert.False(t, civil.Milestone)
	assert.Equal(t, 12500.0, civil.Cost)

	hormigon := project.Tasks[2]
	// Elapsed-hours display keeps the hour value: PT10H30M is 10.5eh.
	assert.Equal(t, types.Duration{Value: 10.5, Unit: "eh"}, hormigon.Duration)

	entrega := project.Tasks[3]
	assert.True(t, entrega.Milestone)
	assert.True(t, entrega.Duration.IsZero())
}

func TestMSPDIPredecessorMapping(t *testing.T) {
	path := writeFixture(t, "plan.xml", fixtureMSPDI)
	project, err := Read(path)
	require.NoError(t, err)

	hormigon := project.Tasks[2]
	require.Len(t, hormigon.Predecessors, 1)
	rel := hormigon.Predecessors[0]
	assert.Equal(t, 2, rel.PredecessorID)
	assert.Equal(t, types.FinishToStart, rel.Type)
	// 9600 tenths of a minute is two 8-hour days.
	assert.Equal(t, 2.0, rel.Lag)
	assert.Equal(t, "d", rel.LagUnit)

	entrega := project.Tasks[3]
	require.Len(t, entrega.Predecessors, 1)
	assert.Equal(t, types.StartToStart, entrega.Predecessors[0].Type)
	assert.Zero(t, entrega.Predecessors[0].Lag)
}

func TestMSPDIResourceAndAssignmentMapping(t *testing.T) {
	path := writeFixture(t, "plan.xml", fixtureMSPDI)
	project, err := Read(path)
	require.NoError(t, err)

	crew := project.Resources[0]
	assert.Equal(t, "Cuadrilla A", crew.Name)
	assert.Equal(t, types.ResourceWork, crew.Type)
	assert.Equal(t, 7500.0, crew.Cost)
	assert.Equal(t, "45.50/h", crew.StandardRate)
	assert.Equal(t, 200.0, crew.MaxUnits)

	crane := project.Resources[1]
	assert.Equal(t, types.ResourceMaterial, crane.Type)
	assert.Equal(t, "", crane.StandardRate)

	assert.Equal(t, []string{"Cuadrilla A", "Grúa"}, project.Tasks[1].ResourceNames)
	assert.Equal(t, []string{"Cuadrilla A"}, project.Tasks[2].ResourceNames)
	assert.Empty(t, project.Tasks[0].ResourceNames)
}

func TestReadUnsupportedFormats(t *testing.T) {
	dir := t.TempDir()
	mpp := filepath.Join(dir, "plan.mpp")
	require.NoError(t, os.WriteFile(mpp, []byte{0xD0, 0xCF, 0x11, 0xE0}, 0o644))

	_, err := Read(mpp)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "MSPDI")

	other := filepath.Join(dir, "plan.csv")
	require.NoError(t, os.WriteFile(other, []byte("a,b"), 0o644))
	_, err = Read(other)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.xml"))
	require.Error(t, err)
}

func TestReadMalformedXML(t *testing.T) {
	path := writeFixture(t, "broken.xml", "<Project><Tasks>")
	_, err := Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing MSPDI")
}

func TestIsoHours(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"PT8H0M0S", 8},
		{"PT0H30M0S", 0.5},
		{"PT10H30M0S", 10.5},
		{"PT0H0M0S", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, isoHours(tt.in), 1e-9)
		})
	}
}

func TestMapDurationElapsedDaysRoundTrip(t *testing.T) {
	d := mapDuration("PT48H0M0S", formatElapsedDays)
	assert.Equal(t, "2ed", d.String())
	assert.InDelta(t, 48, d.Hours(), 1e-9)
}
