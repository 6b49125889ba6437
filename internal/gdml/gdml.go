// Package gdml reads and writes GDML, the Geant4 geometry-interchange XML
// format, to and from the geant4 registry model. The reader understands the
// subset emitted by the writer and used by the packaged model files: define
// quantities (with replaceable values), box/tube/polycone/genericPolycone
// solids, NIST material references, nested volume structures and sensitive-
// detector auxiliary records.
package gdml

import "encoding/xml"

// Schema location written into the gdml root element.
const schemaLocation = "http://service-spi.web.cern.ch/service-spi/app/releases/GDML/schema/gdml.xsd"

type xmlGDML struct {
	XMLName        xml.Name     `xml:"gdml"`
	SchemaInstance string       `xml:"xmlns:xsi,attr,omitempty"`
	SchemaLocation string       `xml:"xsi:noNamespaceSchemaLocation,attr,omitempty"`
	Define         xmlDefine    `xml:"define"`
	Materials      xmlMaterials `xml:"materials"`
	Solids         xmlSolids    `xml:"solids"`
	Structure      xmlStructure `xml:"structure"`
	Setup          xmlSetup     `xml:"setup"`
}

type xmlDefine struct {
	Constants  []xmlConstant `xml:"constant"`
	Quantities []xmlQuantity `xml:"quantity"`
}

type xmlConstant struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlQuantity struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:"value,attr"`
	Unit  string `xml:"unit,attr,omitempty"`
}

// Materials stay empty: volumes reference predefined NIST materials by name.
type xmlMaterials struct{}

type xmlSolids struct {
	Solids []xmlSolid `xml:",any"`
}

// xmlSolid is the union of the attributes of every supported solid element;
// the element name selects the shape.
type xmlSolid struct {
	XMLName  xml.Name
	Name     string       `xml:"name,attr"`
	X        string       `xml:"x,attr,omitempty"`
	Y        string       `xml:"y,attr,omitempty"`
	Z        string       `xml:"z,attr,omitempty"`
	RMin     string       `xml:"rmin,attr,omitempty"`
	RMax     string       `xml:"rmax,attr,omitempty"`
	StartPhi string       `xml:"startphi,attr,omitempty"`
	DeltaPhi string       `xml:"deltaphi,attr,omitempty"`
	LUnit    string       `xml:"lunit,attr,omitempty"`
	AUnit    string       `xml:"aunit,attr,omitempty"`
	ZPlanes  []xmlZPlane  `xml:"zplane"`
	RZPoints []xmlRZPoint `xml:"rzpoint"`
}

type xmlZPlane struct {
	Z    string `xml:"z,attr"`
	RMin string `xml:"rmin,attr"`
	RMax string `xml:"rmax,attr"`
}

type xmlRZPoint struct {
	R string `xml:"r,attr"`
	Z string `xml:"z,attr"`
}

type xmlStructure struct {
	Volumes []xmlVolume `xml:"volume"`
}

type xmlVolume struct {
	Name        string       `xml:"name,attr"`
	MaterialRef xmlRef       `xml:"materialref"`
	SolidRef    xmlRef       `xml:"solidref"`
	PhysVols    []xmlPhysVol `xml:"physvol"`
	Auxiliary   []xmlAux     `xml:"auxiliary"`
}

type xmlRef struct {
	Ref string `xml:"ref,attr"`
}

type xmlPhysVol struct {
	Name      string       `xml:"name,attr"`
	VolumeRef xmlRef       `xml:"volumeref"`
	Position  *xmlPosition `xml:"position"`
	Rotation  *xmlRotation `xml:"rotation"`
}

type xmlPosition struct {
	Name string `xml:"name,attr,omitempty"`
	X    string `xml:"x,attr,omitempty"`
	Y    string `xml:"y,attr,omitempty"`
	Z    string `xml:"z,attr,omitempty"`
	Unit string `xml:"unit,attr,omitempty"`
}

type xmlRotation struct {
	Name string `xml:"name,attr,omitempty"`
	X    string `xml:"x,attr,omitempty"`
	Y    string `xml:"y,attr,omitempty"`
	Z    string `xml:"z,attr,omitempty"`
	Unit string `xml:"unit,attr,omitempty"`
}

type xmlSetup struct {
	Name    string `xml:"name,attr"`
	Version string `xml:"version,attr"`
	World   xmlRef `xml:"world"`
}

type xmlAux struct {
	AuxType  string   `xml:"auxtype,attr"`
	AuxValue string   `xml:"auxvalue,attr"`
	Children []xmlAux `xml:"auxiliary"`
}

// Auxiliary record types used for sensitive-detector registration, following
// the remage convention.
const (
	auxDetector    = "RMG_detector"
	auxDetectorUID = "RMG_detector_uid"
)
